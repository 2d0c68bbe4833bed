package dto

import "github.com/aarondl/null/v8"

type CreateEmployeeDTO struct {
	EmployeeID string      `json:"employee_id" validate:"required,employee_id"`
	FirstName  string      `json:"first_name" validate:"required"`
	LastName   string      `json:"last_name" validate:"required"`
	Branch     null.String `json:"branch"`
	Department null.String `json:"department"`
	Position   null.String `json:"position"`
	Email      string      `json:"email" validate:"required,email"`
	Phone      null.String `json:"phone" validate:"omitempty"`
}

type UpdateEmployeeDTO struct {
	FirstName  *string     `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName   *string     `json:"last_name,omitempty" validate:"omitempty,min=1"`
	Branch     null.String `json:"branch,omitempty"`
	Department null.String `json:"department,omitempty"`
	Position   null.String `json:"position,omitempty"`
	Email      *string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone      null.String `json:"phone,omitempty"`
	IsActive   *bool       `json:"is_active,omitempty"`
}

type EmployeeDTO struct {
	ID         uint64      `json:"id"`
	EmployeeID string      `json:"employee_id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Branch     null.String `json:"branch"`
	Department null.String `json:"department"`
	Position   null.String `json:"position"`
	Email      string      `json:"email"`
	Phone      null.String `json:"phone"`
	IsActive   bool        `json:"is_active"`
	CreatedAt  string      `json:"created_at"`
	UpdatedAt  string      `json:"updated_at"`
}

type ShortEmployeeDTO struct {
	ID         uint64 `json:"id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
}

// EmployeeViewDTO is the scan/lookup projection: the employee plus everything
// they currently hold.
type EmployeeViewDTO struct {
	Employee      EmployeeDTO         `json:"employee"`
	HeldEquipment []ShortEquipmentDTO `json:"held_equipment"`
}
