package models

import "errors"

type Attendance struct {
	ID      int64  `db:"id" json:"id"`
	Date    string `db:"date" json:"date" validate:"required"`
	Status  string `db:"status" json:"status" validate:"required"`
	EmpDBID int64  `db:"emp_db_id" json:"employee_id" validate:"required"`
}

// AttendanceRecord is a single row of an employee's history.
type AttendanceRecord struct {
	Date   string `db:"date" json:"date"`
	Status string `db:"status" json:"status"`
}

type AttendanceRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

func (r *AttendanceRequest) Attendance() *Attendance {
	return &Attendance{
		Date:    r.Date,
		Status:  r.Status,
		EmpDBID: r.EmployeeID,
	}
}

func (a *Attendance) Validate() error {
	return validate.Struct(a)
}

// SummaryRange bounds GET /api/attendance/summary, both ends inclusive.
type SummaryRange struct {
	From string `validate:"required,datetime=2006-01-02"`
	To   string `validate:"required,datetime=2006-01-02"`
}

var ErrRangeReversed = errors.New("range start is after its end")

func (r *SummaryRange) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	// ISO dates order lexicographically
	if r.From > r.To {
		return ErrRangeReversed
	}
	return nil
}
