package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Assignment is one ledger row: who held what, when taken, when returned.
// Rows are never deleted; a return closes the row by setting ReturnDate.
type Assignment struct {
	ID                 uint64
	EquipmentID        uint64
	EmployeeID         uint64
	AssignedDate       time.Time
	ExpectedReturnDate null.Time
	ReturnDate         null.Time
	ConditionAtAssign  null.String
	ConditionAtReturn  null.String
	Notes              null.String
	AssignedBy         null.String
	ReturnedBy         null.String
}

// IsOpen reports whether the equipment is still checked out under this row.
func (a *Assignment) IsOpen() bool {
	return !a.ReturnDate.Valid
}

// DaysHeld is the number of whole days between the assignment date and the
// return date, or now for an open assignment.
func (a *Assignment) DaysHeld(now time.Time) int {
	end := now
	if a.ReturnDate.Valid {
		end = a.ReturnDate.Time
	}
	return int(end.Sub(a.AssignedDate).Hours() / 24)
}

// IsOverdue reports whether the expected return date has passed with no
// return recorded.
func (a *Assignment) IsOverdue(now time.Time) bool {
	return a.IsOpen() && a.ExpectedReturnDate.Valid && now.After(a.ExpectedReturnDate.Time)
}

// AssignmentDetail is a ledger row joined with the natural keys and display
// names of both sides, for listings and projections.
type AssignmentDetail struct {
	Assignment
	InventoryNumber string
	EquipmentName   string
	EmployeeCode    string
	EmployeeName    string
}
