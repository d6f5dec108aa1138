package models

import (
	"strings"
)

type Employee struct {
	ID         int64  `db:"id" json:"id"`
	EmpID      string `db:"emp_id" json:"emp_id" validate:"required,max=50"`
	Name       string `db:"name" json:"name" validate:"required,max=100"`
	Email      string `db:"email" json:"email" validate:"required,max=100,email_shape"`
	Department string `db:"department" json:"department" validate:"required,max=100"`
}

// EmployeeRequest is the body of POST /api/employees. Pointers tell an
// absent field apart from an empty one in logs, both fail validation.
type EmployeeRequest struct {
	EmpID      *string `json:"emp_id"`
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
}

func (r *EmployeeRequest) Employee() *Employee {
	return &Employee{
		EmpID:      trimmed(r.EmpID),
		Name:       trimmed(r.Name),
		Email:      trimmed(r.Email),
		Department: trimmed(r.Department),
	}
}

func (e *Employee) Validate() error {
	return validate.Struct(e)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
