package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	InventoryNumber  string      `json:"inventory_number" validate:"required,inventory_number"`
	Name             string      `json:"name" validate:"required"`
	Category         null.String `json:"category"`
	Branch           null.String `json:"branch"`
	Manufacturer     null.String `json:"manufacturer"`
	Model            null.String `json:"model"`
	SerialNumber     null.String `json:"serial_number"`
	PurchasePrice    float64     `json:"purchase_price" validate:"gte=0"`
	DepreciationRate float64     `json:"depreciation_rate" validate:"gte=0,lte=100"`
	PurchaseDate     null.Time   `json:"purchase_date"`
	WarrantyExpiry   null.Time   `json:"warranty_expiry"`
}

// UpdateEquipmentDTO patches descriptive fields only; status moves exclusively
// through the lifecycle operations.
type UpdateEquipmentDTO struct {
	Name             *string     `json:"name,omitempty" validate:"omitempty,min=1"`
	Category         null.String `json:"category,omitempty"`
	Branch           null.String `json:"branch,omitempty"`
	Manufacturer     null.String `json:"manufacturer,omitempty"`
	Model            null.String `json:"model,omitempty"`
	SerialNumber     null.String `json:"serial_number,omitempty"`
	PurchasePrice    *float64    `json:"purchase_price,omitempty" validate:"omitempty,gte=0"`
	DepreciationRate *float64    `json:"depreciation_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	PurchaseDate     null.Time   `json:"purchase_date,omitempty"`
	WarrantyExpiry   null.Time   `json:"warranty_expiry,omitempty"`
}

type EquipmentDTO struct {
	ID               uint64      `json:"id"`
	InventoryNumber  string      `json:"inventory_number"`
	Name             string      `json:"name"`
	Category         null.String `json:"category"`
	Branch           null.String `json:"branch"`
	Manufacturer     null.String `json:"manufacturer"`
	Model            null.String `json:"model"`
	SerialNumber     null.String `json:"serial_number"`
	Status           string      `json:"status"`
	PurchasePrice    float64     `json:"purchase_price"`
	DepreciationRate float64     `json:"depreciation_rate"`
	CurrentValue     float64     `json:"current_value"`
	PurchaseDate     null.Time   `json:"purchase_date"`
	WarrantyExpiry   null.Time   `json:"warranty_expiry"`
	WarrantyActive   bool        `json:"warranty_active"`
	CreatedAt        string      `json:"created_at"`
	UpdatedAt        string      `json:"updated_at"`
}

type ShortEquipmentDTO struct {
	ID              uint64 `json:"id"`
	InventoryNumber string `json:"inventory_number"`
	Name            string `json:"name"`
	Status          string `json:"status"`
}

// EquipmentViewDTO is the scan/lookup projection: the record plus who holds it.
type EquipmentViewDTO struct {
	Equipment     EquipmentDTO      `json:"equipment"`
	CurrentHolder *ShortEmployeeDTO `json:"current_holder,omitempty"`
	AssignedSince null.Time         `json:"assigned_since,omitempty"`
}

type EquipmentFilterDTO struct {
	Status   string `query:"status"`
	Branch   string `query:"branch"`
	Category string `query:"category"`
	Search   string `query:"search"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}
