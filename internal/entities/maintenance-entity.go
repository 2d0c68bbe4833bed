package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type MaintenanceType string

const (
	MaintenanceRepair      MaintenanceType = "REPAIR"
	MaintenanceUpgrade     MaintenanceType = "UPGRADE"
	MaintenanceCleaning    MaintenanceType = "CLEANING"
	MaintenanceInspection  MaintenanceType = "INSPECTION"
	MaintenanceCalibration MaintenanceType = "CALIBRATION"
)

func ParseMaintenanceType(s string) (MaintenanceType, bool) {
	switch MaintenanceType(s) {
	case MaintenanceRepair, MaintenanceUpgrade, MaintenanceCleaning,
		MaintenanceInspection, MaintenanceCalibration:
		return MaintenanceType(s), true
	}
	return "", false
}

// MaintenanceRecord with a null PerformedDate is scheduled but not yet done;
// while one exists the equipment sits in MAINTENANCE.
type MaintenanceRecord struct {
	ID              uint64
	EquipmentID     uint64
	MaintenanceType MaintenanceType
	Description     null.String
	PerformedBy     null.String
	Cost            float64
	PerformedDate   null.Time
	CreatedAt       time.Time
}

func (m *MaintenanceRecord) IsOpen() bool {
	return !m.PerformedDate.Valid
}
