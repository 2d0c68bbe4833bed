package dto

import "github.com/aarondl/null/v8"

type AssignEquipmentDTO struct {
	InventoryNumber    string      `json:"inventory_number" validate:"required,inventory_number"`
	EmployeeID         string      `json:"employee_id" validate:"required,employee_id"`
	Condition          null.String `json:"condition"`
	ExpectedReturnDate null.Time   `json:"expected_return_date"`
	Notes              null.String `json:"notes"`

	// AssignedDate is set by the reconciliation importer to preserve the
	// source system's date; interactive callers leave it empty.
	AssignedDate null.Time `json:"-"`
}

type ReturnEquipmentDTO struct {
	InventoryNumber string      `json:"inventory_number" validate:"required,inventory_number"`
	Condition       null.String `json:"condition"`
	Notes           null.String `json:"notes"`
	ReturnDate      null.Time   `json:"return_date"`
}

type AssignmentDTO struct {
	ID                 uint64      `json:"id"`
	EquipmentID        uint64      `json:"equipment_id"`
	InventoryNumber    string      `json:"inventory_number"`
	EquipmentName      string      `json:"equipment_name"`
	EmployeeID         string      `json:"employee_id"`
	EmployeeName       string      `json:"employee_name"`
	AssignedDate       string      `json:"assigned_date"`
	ExpectedReturnDate null.Time   `json:"expected_return_date"`
	ReturnDate         null.Time   `json:"return_date"`
	ConditionAtAssign  null.String `json:"condition_at_assign"`
	ConditionAtReturn  null.String `json:"condition_at_return"`
	Notes              null.String `json:"notes"`
	DaysHeld           int         `json:"days_held"`
	Overdue            bool        `json:"overdue"`
}
