package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
)

const reconciliationCSV = `inventory_number,name,category,serial_number,purchase_price,status,assigned_to
INV-100,ThinkPad T14,laptop,SN-A100,1200.00,AVAILABLE,
INV-101,Dell U2720Q,monitor,,450.50,AVAILABLE,
INV-102,MacBook Pro 14,laptop,SN-A102,2100.00,ASSIGNED,EMP-001
INV-103,Logitech MX,peripheral,SN-A103,89.99,AVAILABLE,
INV-104,iPhone 15,phone,SN-A104,999.00,MAINTENANCE,
INV-105,iPad Air,tablet,SN-A105,599.00,ASSIGNED,EMP-GHOST
INV-106,HP LaserJet,printer,SN-A106,310.00,AVAILABLE,
INV-107,Cisco 8861,phone,SN-A107,275.00,RETIRED,
INV-101,Dell U2720Q duplicate,monitor,,450.50,AVAILABLE,
INV-109,Surface Pro,tablet,SN-A109,1100.00,AVAILABLE,
`

func TestImport_PartialFailureBatch(t *testing.T) {
	env := newTestEnv(t)
	env.seedEmployee("EMP-001")

	result, err := env.importService.ImportCSV(context.Background(), strings.NewReader(reconciliationCSV))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.BatchID)

	assert.Equal(t, 8, result.Created)
	assert.Equal(t, 0, result.Updated)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "unknown employee ID")
	assert.Contains(t, result.Errors[1], "duplicate inventory number")
	assert.Contains(t, result.Errors[1], "first seen on row 3")

	// Good rows landed despite the two failures.
	assert.Equal(t, entities.StatusAvailable, env.equipment.get("INV-100").Status)
	assert.Equal(t, entities.StatusAssigned, env.equipment.get("INV-102").Status)
	assert.Equal(t, entities.StatusMaintenance, env.equipment.get("INV-104").Status)
	assert.Equal(t, entities.StatusRetired, env.equipment.get("INV-107").Status)

	// The unresolved-employee row is still committed, coerced to AVAILABLE.
	ghost := env.equipment.get("INV-105")
	require.NotNil(t, ghost)
	assert.Equal(t, entities.StatusAvailable, ghost.Status)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "coerced to AVAILABLE")

	// The duplicate did not clobber the first occurrence.
	assert.Equal(t, "Dell U2720Q", env.equipment.get("INV-101").Name)

	holder, err := env.assignmentService.CurrentHolder(context.Background(), "INV-102")
	require.NoError(t, err)
	require.NotNil(t, holder)
	assert.Equal(t, "EMP-001", holder.EmployeeID)
}

func TestImport_SerialNumberDefault(t *testing.T) {
	env := newTestEnv(t)

	csv := "inventory_number,name,serial_number\nINV-200,Dock Station,\nINV-201,Webcam,CAM-01\n"
	result, err := env.importService.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	assert.Equal(t, "SN-INV-200", env.equipment.get("INV-200").SerialNumber.String)
	assert.Equal(t, "CAM-01", env.equipment.get("INV-201").SerialNumber.String)
}

func TestImport_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	env.seedEmployee("EMP-001")

	csv := `inventory_number,name,status,assigned_to
INV-300,ThinkPad T14,ASSIGNED,EMP-001
INV-301,Dell U2720Q,AVAILABLE,
`
	first, err := env.importService.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)
	assert.Empty(t, first.Errors)

	second, err := env.importService.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Updated)
	assert.Empty(t, second.Errors)

	// Re-importing the assigned row is a no-op: still one open ledger row,
	// status unchanged.
	open, _ := env.assignments.OpenByEquipmentID(context.Background(), nil, env.equipment.get("INV-300").ID)
	assert.Len(t, open, 1)
	assert.Equal(t, entities.StatusAssigned, env.equipment.get("INV-300").Status)
}

func TestImport_UpdateMergesNonEmptyFields(t *testing.T) {
	env := newTestEnv(t)
	eq := env.seedEquipment("INV-400", entities.StatusAvailable)
	eq.Manufacturer = nullFrom("Lenovo")

	csv := "inventory_number,name,model,manufacturer\nINV-400,ThinkPad T14 Gen 5,21ML,\n"
	result, err := env.importService.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	got := env.equipment.get("INV-400")
	assert.Equal(t, "ThinkPad T14 Gen 5", got.Name)
	assert.Equal(t, "21ML", got.Model.String)
	// Empty cell leaves the stored value alone.
	assert.Equal(t, "Lenovo", got.Manufacturer.String)
}

func TestImport_StatuslessRowLeavesStatusAlone(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-900", entities.StatusAvailable)
	env.seedEquipment("INV-901", entities.StatusRetired)

	_, err := env.maintenanceService.Start(context.Background(), dto.StartMaintenanceDTO{
		InventoryNumber: "INV-900",
		MaintenanceType: "REPAIR",
	})
	require.NoError(t, err)

	// Descriptive-only rows: no status column at all. The merge must not
	// treat the absent cell as a request for AVAILABLE.
	csv := "inventory_number,name,model\nINV-900,ThinkPad T14,21ML\nINV-901,Old Printer,M404\n"
	result, err := env.importService.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Empty(t, result.Errors)

	assert.Equal(t, entities.StatusMaintenance, env.equipment.get("INV-900").Status)
	open, _ := env.maintenance.OpenByEquipmentID(context.Background(), nil, env.equipment.get("INV-900").ID)
	assert.Len(t, open, 1)

	// Retired equipment accepts descriptive re-imports without a row error.
	assert.Equal(t, entities.StatusRetired, env.equipment.get("INV-901").Status)
	assert.Equal(t, "M404", env.equipment.get("INV-901").Model.String)
}

func TestImport_CannotDowngradeAssignedEquipment(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-500", entities.StatusAvailable)
	env.seedEmployee("EMP-001")

	_, err := env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-500", EmployeeID: "EMP-001",
	})
	require.NoError(t, err)

	csv := "inventory_number,name,status\nINV-500,ThinkPad T14,AVAILABLE\n"
	result, err := env.importService.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	// The sheet cannot override the ledger.
	assert.Equal(t, entities.StatusAssigned, env.equipment.get("INV-500").Status)
	open, _ := env.assignments.OpenByEquipmentID(context.Background(), nil, env.equipment.get("INV-500").ID)
	assert.Len(t, open, 1)
}

func TestImport_IllegalTransitionIsRowError(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-600", entities.StatusRetired)

	csv := "inventory_number,name,status\nINV-600,Old Printer,AVAILABLE\n"
	result, err := env.importService.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "RETIRED")
	assert.Equal(t, entities.StatusRetired, env.equipment.get("INV-600").Status)
}

func TestImport_BadCells(t *testing.T) {
	env := newTestEnv(t)

	csv := `inventory_number,name,purchase_price,status
IN,Too Short,100,AVAILABLE
INV-700,Scanner,notanumber,AVAILABLE
INV-701,Scanner,100,FLYING
INV-702,,100,AVAILABLE
`
	result, err := env.importService.ImportCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "invalid inventory number")
	assert.Contains(t, result.Errors[1], "invalid purchase price")
	assert.Contains(t, result.Errors[2], "unknown status")
	assert.Contains(t, result.Errors[3], "name is required")
}

func TestImport_XLSXFirstSheet(t *testing.T) {
	env := newTestEnv(t)

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	rows := [][]interface{}{
		{"inventory_number", "name", "status"},
		{"INV-800", "ThinkPad T14", "AVAILABLE"},
		{"INV-801", "Dell U2720Q", "MAINTENANCE"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	result, err := env.importService.ImportXLSX(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, entities.StatusMaintenance, env.equipment.get("INV-801").Status)
}
