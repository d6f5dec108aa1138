package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

func TestValidEmail(t *testing.T) {
	testCases := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"a.b+c@mail.example.org", true},
		{"", false},
		{"alice", false},
		{"alice@example", false},
		{"@example.com", false},
		{"alice@@example.com", false},
		{"alice@example.com extra", false},
		{"alice@.com", false},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidEmail(tc.email))
		})
	}
}

func TestEmployeeRequest(t *testing.T) {
	t.Run("trims values", func(t *testing.T) {
		req := EmployeeRequest{
			EmpID:      ptr(" E001 "),
			Name:       ptr("Alice\n"),
			Email:      ptr(" alice@example.com"),
			Department: ptr("Engineering "),
		}
		e := req.Employee()
		assert.Equal(t, &Employee{EmpID: "E001", Name: "Alice", Email: "alice@example.com", Department: "Engineering"}, e)
		assert.NoError(t, e.Validate())
	})

	t.Run("absent fields fail as required", func(t *testing.T) {
		req := EmployeeRequest{EmpID: ptr("E001"), Email: ptr("alice@example.com")}
		err := req.Employee().Validate()
		require.Error(t, err)
		assert.Equal(t, []FieldError{
			{Field: "name", Tag: "required"},
			{Field: "department", Tag: "required"},
		}, FailedFields(err))
	})

	t.Run("blank fields fail as required", func(t *testing.T) {
		req := EmployeeRequest{EmpID: ptr("  "), Name: ptr("Alice"), Email: ptr("alice@example.com"), Department: ptr("HR")}
		assert.Equal(t, []FieldError{{Field: "emp_id", Tag: "required"}}, FailedFields(req.Employee().Validate()))
	})

	t.Run("bad email shape", func(t *testing.T) {
		req := EmployeeRequest{EmpID: ptr("E001"), Name: ptr("Alice"), Email: ptr("alice-at-example"), Department: ptr("HR")}
		assert.Equal(t, []FieldError{{Field: "email", Tag: "email_shape"}}, FailedFields(req.Employee().Validate()))
	})
}

func TestAttendanceValidate(t *testing.T) {
	testCases := []struct {
		name    string
		req     AttendanceRequest
		invalid []string
	}{
		{"complete", AttendanceRequest{EmployeeID: 1, Date: "2024-01-01", Status: "Present"}, nil},
		{"missing status", AttendanceRequest{EmployeeID: 1, Date: "2024-01-01"}, []string{"status"}},
		{"missing date", AttendanceRequest{EmployeeID: 1, Status: "Present"}, []string{"date"}},
		{"zero employee", AttendanceRequest{Date: "2024-01-01", Status: "Present"}, []string{"employee_id"}},
		{"date is not checked for validity", AttendanceRequest{EmployeeID: 1, Date: "2024-13-45", Status: "Present"}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, fe := range FailedFields(tc.req.Attendance().Validate()) {
				got = append(got, fe.Field)
			}
			assert.ElementsMatch(t, tc.invalid, got)
		})
	}
}

func TestSummaryRangeValidate(t *testing.T) {
	assert.NoError(t, (&SummaryRange{From: "2024-01-01", To: "2024-01-31"}).Validate())
	assert.NoError(t, (&SummaryRange{From: "2024-01-01", To: "2024-01-01"}).Validate())
	assert.Error(t, (&SummaryRange{From: "2024-02-01", To: "2024-01-31"}).Validate())
	assert.Error(t, (&SummaryRange{From: "2024/01/01", To: "2024-01-31"}).Validate())
	assert.Error(t, (&SummaryRange{To: "2024-01-31"}).Validate())
}
