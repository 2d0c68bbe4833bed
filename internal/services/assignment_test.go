package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/keylock"
)

type testEnv struct {
	equipment   *fakeEquipmentRepo
	employees   *fakeEmployeeRepo
	assignments *fakeAssignmentRepo
	maintenance *fakeMaintenanceRepo
	checks      *fakeCheckRepo
	audit       *fakeAuditRepo
	clock       *fixedClock

	cache *fakeCache

	assignmentService  *AssignmentService
	equipmentService   *EquipmentService
	maintenanceService *MaintenanceService
	importService      *ImportService
	employeeService    *EmployeeService
	checkService       *InventoryCheckService
	dashboardService   *DashboardService
	qrService          *QRService
	auditService       *AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		equipment:   newFakeEquipmentRepo(),
		employees:   newFakeEmployeeRepo(),
		maintenance: &fakeMaintenanceRepo{},
		checks:      &fakeCheckRepo{},
		audit:       &fakeAuditRepo{},
		clock:       &fixedClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)},
	}
	env.assignments = newFakeAssignmentRepo(env.equipment, env.employees)

	logger := zap.NewNop()
	txManager := &fakeTxManager{}
	guard := NewEquipmentGuard(keylock.New(500*time.Millisecond), txManager, env.equipment)

	env.assignmentService = NewAssignmentService(
		guard, env.equipment, env.employees, env.assignments, env.audit, nil, env.clock, logger)
	env.equipmentService = NewEquipmentService(
		guard, env.equipment, env.assignments, env.maintenance, env.audit, nil, env.clock, logger)
	env.maintenanceService = NewMaintenanceService(
		guard, env.equipment, env.assignments, env.maintenance, env.audit, nil, env.clock, logger)
	env.importService = NewImportService(
		guard, env.equipment, env.employees, env.audit, env.assignmentService, nil, logger)
	env.employeeService = NewEmployeeService(
		txManager, env.employees, env.assignments, env.audit, logger)
	env.checkService = NewInventoryCheckService(
		txManager, env.equipment, env.checks, env.audit, env.clock, logger)
	env.cache = newFakeCache()
	env.dashboardService = NewDashboardService(
		&fakeDashboardRepo{equipment: env.equipment}, env.assignments, env.checks,
		env.employees, env.cache, time.Minute, 5, env.clock, logger)
	env.qrService = NewQRService(env.equipmentService, env.employeeService, logger)
	env.auditService = NewAuditService(env.audit, logger)
	return env
}

func (env *testEnv) seedEquipment(inventoryNumber string, status entities.EquipmentStatus) *entities.Equipment {
	return env.equipment.add(&entities.Equipment{
		InventoryNumber: inventoryNumber,
		Name:            "ThinkPad T14",
		Status:          status,
	})
}

func (env *testEnv) seedEmployee(code string) *entities.Employee {
	return env.employees.add(&entities.Employee{
		EmployeeID: code,
		FirstName:  "Anna",
		LastName:   "Karimova",
		Email:      code + "@example.com",
		IsActive:   true,
	})
}

func TestAssign_OpensLedgerRowAndSetsStatus(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)
	env.seedEmployee("EMP-001")

	got, err := env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-001",
		EmployeeID:      "EMP-001",
		Condition:       null.StringFrom("good"),
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "INV-001", got.InventoryNumber)
	assert.Equal(t, "EMP-001", got.EmployeeID)

	assert.Equal(t, entities.StatusAssigned, env.equipment.get("INV-001").Status)
	open, _ := env.assignments.OpenByEquipmentID(context.Background(), nil, 1)
	assert.Len(t, open, 1)
	assert.Equal(t, 1, env.audit.count(entities.ActionAssign))
}

func TestAssign_UnknownEquipmentOrEmployee(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)
	env.seedEmployee("EMP-001")

	_, err := env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-404", EmployeeID: "EMP-001",
	})
	assert.ErrorIs(t, err, apperrors.ErrEquipmentNotFound)

	_, err = env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-001", EmployeeID: "EMP-404",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmployeeNotFound)
}

func TestAssign_InactiveEmployee(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)
	emp := env.seedEmployee("EMP-001")
	emp.IsActive = false

	_, err := env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-001", EmployeeID: "EMP-001",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmployeeInactive)
}

func TestAssign_AlreadyAssignedConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)
	env.seedEmployee("EMP-001")
	env.seedEmployee("EMP-002")

	_, err := env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-001", EmployeeID: "EMP-001",
	})
	require.NoError(t, err)

	_, err = env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-001", EmployeeID: "EMP-002",
	})
	assert.ErrorIs(t, err, apperrors.ErrOpenAssignmentExists)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAssign_SameHolderIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)
	env.seedEmployee("EMP-001")

	first, err := env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-001", EmployeeID: "EMP-001",
	})
	require.NoError(t, err)

	second, err := env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-001", EmployeeID: "EMP-001",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	open, _ := env.assignments.OpenByEquipmentID(context.Background(), nil, 1)
	assert.Len(t, open, 1)
}

func TestAssign_ConcurrentRace_ExactlyOneSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)
	env.seedEmployee("EMP-001")
	env.seedEmployee("EMP-002")

	const callers = 8
	results := make([]error, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			code := "EMP-001"
			if i%2 == 1 {
				code = "EMP-002"
			}
			_, results[i] = env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
				InventoryNumber: "INV-001", EmployeeID: code,
			})
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperrors.IsConflict(err), "loser must get a conflict, got %v", err)
		}
	}
	// Callers sharing the winner's employee see a no-op success; at most one
	// ledger row may exist either way.
	assert.GreaterOrEqual(t, succeeded, 1)

	open, _ := env.assignments.OpenByEquipmentID(context.Background(), nil, 1)
	require.Len(t, open, 1)
	assert.Equal(t, entities.StatusAssigned, env.equipment.get("INV-001").Status)
}

func TestAssign_DeactivationWhileWaitingForLock(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)
	env.seedEmployee("EMP-001")

	locks := keylock.New(time.Second)
	guard := NewEquipmentGuard(locks, &fakeTxManager{}, env.equipment)
	svc := NewAssignmentService(
		guard, env.equipment, env.employees, env.assignments, env.audit,
		nil, env.clock, zap.NewNop())

	release, err := locks.Acquire(context.Background(), "INV-001")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Assign(context.Background(), dto.AssignEquipmentDTO{
			InventoryNumber: "INV-001", EmployeeID: "EMP-001",
		})
		done <- err
	}()

	// The assign call is parked on the equipment lock; deactivate the
	// employee before handing the lock over. Eligibility is read under the
	// lock, so the deactivation must win.
	time.Sleep(20 * time.Millisecond)
	env.employees.setActive("EMP-001", false)
	release()

	assert.ErrorIs(t, <-done, apperrors.ErrEmployeeInactive)
	open, _ := env.assignments.OpenByEquipmentID(context.Background(), nil, 1)
	assert.Empty(t, open)
}

func TestReturn_RestoresAvailability(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)
	env.seedEmployee("EMP-001")
	env.seedEmployee("EMP-002")

	_, err := env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-001", EmployeeID: "EMP-001",
	})
	require.NoError(t, err)

	closed, err := env.assignmentService.Return(context.Background(), dto.ReturnEquipmentDTO{
		InventoryNumber: "INV-001",
		Condition:       null.StringFrom("scratched lid"),
	})
	require.NoError(t, err)
	assert.True(t, closed.ReturnDate.Valid)
	assert.Equal(t, entities.StatusAvailable, env.equipment.get("INV-001").Status)

	// The equipment is assignable again, to someone else.
	_, err = env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-001", EmployeeID: "EMP-002",
	})
	assert.NoError(t, err)
}

func TestReturn_NothingCheckedOut(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)

	_, err := env.assignmentService.Return(context.Background(), dto.ReturnEquipmentDTO{
		InventoryNumber: "INV-001",
	})
	assert.ErrorIs(t, err, apperrors.ErrNoOpenAssignment)
	assert.True(t, apperrors.IsConflict(err))
}

func TestReturn_MultipleOpenRowsIsIntegrityFailure(t *testing.T) {
	env := newTestEnv(t)
	eq := env.seedEquipment("INV-001", entities.StatusAssigned)
	emp := env.seedEmployee("EMP-001")

	// Corrupt the ledger directly, bypassing the unique-open check.
	for i := 0; i < 2; i++ {
		env.assignments.nextID++
		env.assignments.rows = append(env.assignments.rows, &entities.Assignment{
			ID:           env.assignments.nextID,
			EquipmentID:  eq.ID,
			EmployeeID:   emp.ID,
			AssignedDate: env.clock.now,
		})
	}

	_, err := env.assignmentService.Return(context.Background(), dto.ReturnEquipmentDTO{
		InventoryNumber: "INV-001",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)
}

func TestCurrentHolder(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)
	env.seedEmployee("EMP-001")

	holder, err := env.assignmentService.CurrentHolder(context.Background(), "INV-001")
	require.NoError(t, err)
	assert.Nil(t, holder)

	_, err = env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber: "INV-001", EmployeeID: "EMP-001",
	})
	require.NoError(t, err)

	holder, err = env.assignmentService.CurrentHolder(context.Background(), "INV-001")
	require.NoError(t, err)
	require.NotNil(t, holder)
	assert.Equal(t, "EMP-001", holder.EmployeeID)
}

func TestOverdue_AppearsAndClearsOnReturn(t *testing.T) {
	env := newTestEnv(t)
	env.seedEquipment("INV-001", entities.StatusAvailable)
	env.seedEmployee("EMP-001")

	_, err := env.assignmentService.Assign(context.Background(), dto.AssignEquipmentDTO{
		InventoryNumber:    "INV-001",
		EmployeeID:         "EMP-001",
		ExpectedReturnDate: null.TimeFrom(env.clock.now.AddDate(0, 0, 7)),
	})
	require.NoError(t, err)

	overdue, err := env.assignmentService.Overdue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, overdue)

	env.clock.now = env.clock.now.AddDate(0, 0, 10)
	overdue, err = env.assignmentService.Overdue(context.Background())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "INV-001", overdue[0].InventoryNumber)
	assert.True(t, overdue[0].Overdue)

	_, err = env.assignmentService.Return(context.Background(), dto.ReturnEquipmentDTO{
		InventoryNumber: "INV-001",
	})
	require.NoError(t, err)

	overdue, err = env.assignmentService.Overdue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, overdue)
}
