package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

// The fakes below stand in for the pgx-backed repositories. They keep state
// in maps guarded by a mutex so the concurrency tests can hammer them from
// several goroutines; the tx argument is ignored, the fake tx manager just
// calls fn(nil).

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type fakeEquipmentRepo struct {
	mu     sync.Mutex
	nextID uint64
	byInv  map[string]*entities.Equipment
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{byInv: make(map[string]*entities.Equipment)}
}

func (r *fakeEquipmentRepo) add(e *entities.Equipment) *entities.Equipment {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.byInv[e.InventoryNumber] = e
	return e
}

func (r *fakeEquipmentRepo) get(inventoryNumber string) *entities.Equipment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byInv[inventoryNumber]
}

func (r *fakeEquipmentRepo) List(ctx context.Context, filter dto.EquipmentFilterDTO) ([]entities.Equipment, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Equipment
	for _, e := range r.byInv {
		out = append(out, *e)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeEquipmentRepo) FindByInventoryNumber(ctx context.Context, inventoryNumber string) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byInv[inventoryNumber]
	if !ok {
		return nil, apperrors.ErrEquipmentNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEquipmentRepo) FindForUpdate(ctx context.Context, tx pgx.Tx, inventoryNumber string) (*entities.Equipment, error) {
	return r.FindByInventoryNumber(ctx, inventoryNumber)
}

func (r *fakeEquipmentRepo) Create(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byInv[equipment.InventoryNumber]; exists {
		return 0, apperrors.ErrDuplicate
	}
	r.nextID++
	cp := *equipment
	cp.ID = r.nextID
	r.byInv[cp.InventoryNumber] = &cp
	return cp.ID, nil
}

func (r *fakeEquipmentRepo) Update(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byInv[equipment.InventoryNumber]
	if !ok {
		return apperrors.ErrEquipmentNotFound
	}
	cp := *equipment
	cp.ID = stored.ID
	cp.Status = stored.Status
	r.byInv[cp.InventoryNumber] = &cp
	return nil
}

func (r *fakeEquipmentRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.EquipmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byInv {
		if e.ID == id {
			e.Status = status
			return nil
		}
	}
	return apperrors.ErrEquipmentNotFound
}

type fakeEmployeeRepo struct {
	mu     sync.Mutex
	nextID uint64
	byCode map[string]*entities.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{byCode: make(map[string]*entities.Employee)}
}

func (r *fakeEmployeeRepo) add(e *entities.Employee) *entities.Employee {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.byCode[e.EmployeeID] = e
	return e
}

func (r *fakeEmployeeRepo) setActive(employeeID string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCode[employeeID].IsActive = active
}

func (r *fakeEmployeeRepo) List(ctx context.Context, limit, offset uint64) ([]entities.Employee, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Employee
	for _, e := range r.byCode {
		out = append(out, *e)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeEmployeeRepo) FindByEmployeeID(ctx context.Context, employeeID string) (*entities.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byCode[employeeID]
	if !ok {
		return nil, apperrors.ErrEmployeeNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, tx pgx.Tx, employee *entities.Employee) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byCode[employee.EmployeeID]; exists {
		return 0, apperrors.ErrDuplicate
	}
	r.nextID++
	cp := *employee
	cp.ID = r.nextID
	r.byCode[cp.EmployeeID] = &cp
	return cp.ID, nil
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[employee.EmployeeID]; !ok {
		return apperrors.ErrEmployeeNotFound
	}
	cp := *employee
	r.byCode[cp.EmployeeID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.byCode {
		if e.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeAssignmentRepo struct {
	mu        sync.Mutex
	nextID    uint64
	rows      []*entities.Assignment
	equipment *fakeEquipmentRepo
	employees *fakeEmployeeRepo
}

func newFakeAssignmentRepo(equipment *fakeEquipmentRepo, employees *fakeEmployeeRepo) *fakeAssignmentRepo {
	return &fakeAssignmentRepo{equipment: equipment, employees: employees}
}

func (r *fakeAssignmentRepo) OpenByEquipmentID(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Assignment
	for _, a := range r.rows {
		if a.EquipmentID == equipmentID && a.IsOpen() {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Insert(ctx context.Context, tx pgx.Tx, assignment *entities.Assignment) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirrors the partial unique index on open rows.
	for _, a := range r.rows {
		if a.EquipmentID == assignment.EquipmentID && a.IsOpen() {
			return 0, apperrors.ErrOpenAssignmentExists
		}
	}
	r.nextID++
	cp := *assignment
	cp.ID = r.nextID
	r.rows = append(r.rows, &cp)
	return cp.ID, nil
}

func (r *fakeAssignmentRepo) Close(ctx context.Context, tx pgx.Tx, id uint64, returnDate time.Time, condition, notes null.String, returnedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.ID == id && a.IsOpen() {
			a.ReturnDate = null.TimeFrom(returnDate)
			a.ConditionAtReturn = condition
			if notes.Valid {
				a.Notes = notes
			}
			a.ReturnedBy = null.StringFrom(returnedBy)
			return nil
		}
	}
	return apperrors.ErrNoOpenAssignment
}

func (r *fakeAssignmentRepo) detail(a *entities.Assignment) entities.AssignmentDetail {
	d := entities.AssignmentDetail{Assignment: *a}
	r.equipment.mu.Lock()
	for _, e := range r.equipment.byInv {
		if e.ID == a.EquipmentID {
			d.InventoryNumber = e.InventoryNumber
			d.EquipmentName = e.Name
		}
	}
	r.equipment.mu.Unlock()
	r.employees.mu.Lock()
	for _, e := range r.employees.byCode {
		if e.ID == a.EmployeeID {
			d.EmployeeCode = e.EmployeeID
			d.EmployeeName = e.FullName()
		}
	}
	r.employees.mu.Unlock()
	return d
}

func (r *fakeAssignmentRepo) CurrentHolder(ctx context.Context, equipmentID uint64) (*entities.AssignmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.EquipmentID == equipmentID && a.IsOpen() {
			d := r.detail(a)
			return &d, nil
		}
	}
	return nil, nil
}

func (r *fakeAssignmentRepo) HeldByEmployee(ctx context.Context, employeeID uint64) ([]entities.AssignmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.AssignmentDetail
	for _, a := range r.rows {
		if a.EmployeeID == employeeID && a.IsOpen() {
			out = append(out, r.detail(a))
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) HistoryByEmployee(ctx context.Context, employeeID uint64, limit uint64) ([]entities.AssignmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.AssignmentDetail
	for _, a := range r.rows {
		if a.EmployeeID == employeeID {
			out = append(out, r.detail(a))
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Overdue(ctx context.Context, now time.Time) ([]entities.AssignmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.AssignmentDetail
	for _, a := range r.rows {
		if a.IsOverdue(now) {
			out = append(out, r.detail(a))
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) OverdueCount(ctx context.Context, now time.Time) (int64, error) {
	list, _ := r.Overdue(ctx, now)
	return int64(len(list)), nil
}

func (r *fakeAssignmentRepo) Recent(ctx context.Context, limit int) ([]entities.AssignmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.AssignmentDetail
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.detail(r.rows[i]))
	}
	return out, nil
}

type fakeMaintenanceRepo struct {
	mu     sync.Mutex
	nextID uint64
	rows   []*entities.MaintenanceRecord
}

func (r *fakeMaintenanceRepo) OpenByEquipmentID(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.MaintenanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.MaintenanceRecord
	for _, m := range r.rows {
		if m.EquipmentID == equipmentID && m.IsOpen() {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMaintenanceRepo) Insert(ctx context.Context, tx pgx.Tx, record *entities.MaintenanceRecord) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *record
	cp.ID = r.nextID
	r.rows = append(r.rows, &cp)
	return cp.ID, nil
}

func (r *fakeMaintenanceRepo) Close(ctx context.Context, tx pgx.Tx, id uint64, performedDate time.Time, cost *float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.ID == id && m.IsOpen() {
			m.PerformedDate = null.TimeFrom(performedDate)
			if cost != nil {
				m.Cost = *cost
			}
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeMaintenanceRepo) HistoryByEquipmentID(ctx context.Context, equipmentID uint64, limit uint64) ([]entities.MaintenanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.MaintenanceRecord
	for _, m := range r.rows {
		if m.EquipmentID == equipmentID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMaintenanceRepo) TotalCostByEquipmentID(ctx context.Context, equipmentID uint64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, m := range r.rows {
		if m.EquipmentID == equipmentID {
			total += m.Cost
		}
	}
	return total, nil
}

type fakeCheckRepo struct {
	mu     sync.Mutex
	nextID uint64
	rows   []*entities.InventoryCheck
}

func (r *fakeCheckRepo) Insert(ctx context.Context, tx pgx.Tx, check *entities.InventoryCheck) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *check
	cp.ID = r.nextID
	r.rows = append(r.rows, &cp)
	return cp.ID, nil
}

func (r *fakeCheckRepo) ByEquipmentID(ctx context.Context, equipmentID uint64, limit uint64) ([]entities.InventoryCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.InventoryCheck
	for _, c := range r.rows {
		if c.EquipmentID == equipmentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCheckRepo) Recent(ctx context.Context, limit int) ([]entities.InventoryCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.InventoryCheck
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.rows[i])
	}
	return out, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []entities.AuditLog
}

func (r *fakeAuditRepo) Append(ctx context.Context, tx pgx.Tx, entry *entities.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	cp.ID = uint64(len(r.entries) + 1)
	cp.CreatedAt = time.Now()
	r.entries = append(r.entries, cp)
	return nil
}

func (r *fakeAuditRepo) EntityHistory(ctx context.Context, entityType, entityID string, limit uint64) ([]entities.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.AuditLog
	for i := len(r.entries) - 1; i >= 0 && uint64(len(out)) < limit; i-- {
		e := r.entries[i]
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) count(action entities.AuditAction) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

type fakeDashboardRepo struct {
	equipment *fakeEquipmentRepo
}

func (r *fakeDashboardRepo) CountEquipmentByStatus(ctx context.Context) (map[string]int64, error) {
	r.equipment.mu.Lock()
	defer r.equipment.mu.Unlock()
	out := make(map[string]int64)
	for _, e := range r.equipment.byInv {
		out[string(e.Status)]++
	}
	return out, nil
}

func (r *fakeDashboardRepo) TotalPurchaseCost(ctx context.Context) (float64, error) {
	r.equipment.mu.Lock()
	defer r.equipment.mu.Unlock()
	var total float64
	for _, e := range r.equipment.byInv {
		if e.Status != entities.StatusRetired {
			total += e.PurchasePrice
		}
	}
	return total, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
