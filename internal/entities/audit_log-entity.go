package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type AuditAction string

const (
	ActionCreate   AuditAction = "CREATE"
	ActionUpdate   AuditAction = "UPDATE"
	ActionAssign   AuditAction = "ASSIGN"
	ActionReturn   AuditAction = "RETURN"
	ActionMaintain AuditAction = "MAINTAIN"
	ActionRetire   AuditAction = "RETIRE"
	ActionCheck    AuditAction = "CHECK"
	ActionImport   AuditAction = "IMPORT"
)

// AuditLog is an immutable record of a state-changing operation, written in
// the same transaction as the change itself.
type AuditLog struct {
	ID            uint64
	Actor         string
	Action        AuditAction
	EntityType    string
	EntityID      string
	BeforeValue   null.String
	AfterValue    null.String
	CorrelationID null.String
	CreatedAt     time.Time
}

const (
	EntityEquipment   = "equipment"
	EntityEmployee    = "employee"
	EntityAssignment  = "assignment"
	EntityMaintenance = "maintenance_record"
	EntityCheck       = "inventory_check"
)
