package dto

import "github.com/aarondl/null/v8"

type StartMaintenanceDTO struct {
	InventoryNumber string      `json:"inventory_number" validate:"required,inventory_number"`
	MaintenanceType string      `json:"maintenance_type" validate:"required,maintenance_type"`
	Description     null.String `json:"description"`
	PerformedBy     null.String `json:"performed_by"`
	Cost            float64     `json:"cost" validate:"gte=0"`
}

type FinishMaintenanceDTO struct {
	InventoryNumber string    `json:"inventory_number" validate:"required,inventory_number"`
	Cost            *float64  `json:"cost,omitempty" validate:"omitempty,gte=0"`
	PerformedDate   null.Time `json:"performed_date"`
}

type MaintenanceRecordDTO struct {
	ID              uint64      `json:"id"`
	InventoryNumber string      `json:"inventory_number"`
	MaintenanceType string      `json:"maintenance_type"`
	Description     null.String `json:"description"`
	PerformedBy     null.String `json:"performed_by"`
	Cost            float64     `json:"cost"`
	PerformedDate   null.Time   `json:"performed_date"`
	Open            bool        `json:"open"`
	CreatedAt       string      `json:"created_at"`
}
