package dto

import "github.com/aarondl/null/v8"

type CreateInventoryCheckDTO struct {
	InventoryNumber string      `json:"inventory_number" validate:"required,inventory_number"`
	CheckType       string      `json:"check_type" validate:"required,oneof=SCHEDULED RANDOM INCIDENT ANNUAL"`
	Location        null.String `json:"location"`
	Condition       null.String `json:"condition"`
	IsFunctional    bool        `json:"is_functional"`
	Notes           null.String `json:"notes"`
}

type InventoryCheckDTO struct {
	ID              uint64      `json:"id"`
	InventoryNumber string      `json:"inventory_number"`
	CheckType       string      `json:"check_type"`
	CheckDate       string      `json:"check_date"`
	Location        null.String `json:"location"`
	Condition       null.String `json:"condition"`
	IsFunctional    bool        `json:"is_functional"`
	CheckedBy       string      `json:"checked_by"`
	Notes           null.String `json:"notes"`
}
