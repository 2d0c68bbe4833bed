package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	apperrors "inventory-system/pkg/errors"
)

type EquipmentStatus string

const (
	StatusAvailable   EquipmentStatus = "AVAILABLE"
	StatusAssigned    EquipmentStatus = "ASSIGNED"
	StatusMaintenance EquipmentStatus = "MAINTENANCE"
	StatusRetired     EquipmentStatus = "RETIRED"
)

func ParseEquipmentStatus(s string) (EquipmentStatus, bool) {
	switch EquipmentStatus(s) {
	case StatusAvailable, StatusAssigned, StatusMaintenance, StatusRetired:
		return EquipmentStatus(s), true
	}
	return "", false
}

// transitions is the legality table for status changes. Guards that depend on
// ledger state (open assignments, open maintenance records) are re-checked by
// the services inside the equipment lock; this table only rules out moves that
// are illegal regardless of ledger state. RETIRED is terminal.
var transitions = map[EquipmentStatus][]EquipmentStatus{
	StatusAvailable:   {StatusAssigned, StatusMaintenance, StatusRetired},
	StatusAssigned:    {StatusAvailable},
	StatusMaintenance: {StatusAvailable, StatusMaintenance, StatusRetired},
	StatusRetired:     {},
}

func (s EquipmentStatus) CanTransitionTo(to EquipmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition returns the target status or a conflict error naming the reason.
func (s EquipmentStatus) Transition(to EquipmentStatus) (EquipmentStatus, error) {
	if s == StatusRetired {
		return s, apperrors.ErrEquipmentRetired
	}
	if !s.CanTransitionTo(to) {
		return s, apperrors.ErrIllegalTransition
	}
	return to, nil
}

type Equipment struct {
	ID               uint64
	InventoryNumber  string
	Name             string
	Category         null.String
	Branch           null.String
	Manufacturer     null.String
	Model            null.String
	SerialNumber     null.String
	Status           EquipmentStatus
	PurchasePrice    float64
	DepreciationRate float64
	PurchaseDate     null.Time
	WarrantyExpiry   null.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CurrentValue applies straight-line depreciation from the purchase date.
// Without a purchase date or rate the purchase price is returned as-is.
func (e *Equipment) CurrentValue(now time.Time) float64 {
	if !e.PurchaseDate.Valid || e.DepreciationRate <= 0 || e.PurchasePrice <= 0 {
		return e.PurchasePrice
	}
	years := now.Sub(e.PurchaseDate.Time).Hours() / (24 * 365.25)
	if years < 0 {
		return e.PurchasePrice
	}
	value := e.PurchasePrice * (1 - e.DepreciationRate/100*years)
	if value < 0 {
		return 0
	}
	return value
}

func (e *Equipment) IsWarrantyActive(now time.Time) bool {
	return e.WarrantyExpiry.Valid && !e.WarrantyExpiry.Time.Before(now)
}
