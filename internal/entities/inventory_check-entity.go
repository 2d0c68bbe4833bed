package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CheckType string

const (
	CheckScheduled CheckType = "SCHEDULED"
	CheckRandom    CheckType = "RANDOM"
	CheckIncident  CheckType = "INCIDENT"
	CheckAnnual    CheckType = "ANNUAL"
)

// InventoryCheck is a point-in-time audit snapshot. Append-only; creating one
// never mutates the equipment record.
type InventoryCheck struct {
	ID           uint64
	EquipmentID  uint64
	CheckType    CheckType
	CheckDate    time.Time
	Location     null.String
	Condition    null.String
	IsFunctional bool
	CheckedBy    string
	Notes        null.String
	CreatedAt    time.Time
}
