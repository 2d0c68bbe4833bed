package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/events"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/utils"
)

// importColumns maps recognized header names to ImportRow fields. Unknown
// columns are ignored so exports with extra bookkeeping columns still load.
var importColumns = map[string]func(*dto.ImportRow, string){
	"inventory_number":  func(r *dto.ImportRow, v string) { r.InventoryNumber = v },
	"name":              func(r *dto.ImportRow, v string) { r.Name = v },
	"category":          func(r *dto.ImportRow, v string) { r.Category = v },
	"manufacturer":      func(r *dto.ImportRow, v string) { r.Manufacturer = v },
	"model":             func(r *dto.ImportRow, v string) { r.Model = v },
	"serial_number":     func(r *dto.ImportRow, v string) { r.SerialNumber = v },
	"purchase_price":    func(r *dto.ImportRow, v string) { r.PurchasePrice = v },
	"depreciation_rate": func(r *dto.ImportRow, v string) { r.DepreciationRate = v },
	"purchase_date":     func(r *dto.ImportRow, v string) { r.PurchaseDate = v },
	"status":            func(r *dto.ImportRow, v string) { r.Status = v },
	"assigned_to":       func(r *dto.ImportRow, v string) { r.AssignedTo = v },
	"assigned_date":     func(r *dto.ImportRow, v string) { r.AssignedDate = v },
}

type ImportService struct {
	guard               *EquipmentGuard
	equipmentRepository repositories.EquipmentRepositoryInterface
	employeeRepository  repositories.EmployeeRepositoryInterface
	auditRepository     repositories.AuditRepositoryInterface
	assignmentService   *AssignmentService
	bus                 *eventbus.Bus
	logger              *zap.Logger
}

func NewImportService(
	guard *EquipmentGuard,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	auditRepository repositories.AuditRepositoryInterface,
	assignmentService *AssignmentService,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		guard:               guard,
		equipmentRepository: equipmentRepository,
		employeeRepository:  employeeRepository,
		auditRepository:     auditRepository,
		assignmentService:   assignmentService,
		bus:                 bus,
		logger:              logger,
	}
}

// ImportCSV parses a header-keyed CSV stream and reconciles it.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (*dto.BatchResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	setters := headerSetters(header)

	var rows []dto.ImportRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rows = append(rows, parseRecord(record, setters, line))
	}
	return s.Reconcile(ctx, rows)
}

// ImportXLSX reads the first sheet of a workbook and reconciles it. Row one
// is the header, same column names as the CSV form.
func (s *ImportService) ImportXLSX(ctx context.Context, r io.Reader) (*dto.BatchResult, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return s.Reconcile(ctx, nil)
	}

	setters := headerSetters(records[0])
	rows := make([]dto.ImportRow, 0, len(records)-1)
	for i, record := range records[1:] {
		rows = append(rows, parseRecord(record, setters, i+2))
	}
	return s.Reconcile(ctx, rows)
}

func headerSetters(header []string) []func(*dto.ImportRow, string) {
	setters := make([]func(*dto.ImportRow, string), len(header))
	for i, name := range header {
		setters[i] = importColumns[strings.ToLower(strings.TrimSpace(name))]
	}
	return setters
}

func parseRecord(record []string, setters []func(*dto.ImportRow, string), line int) dto.ImportRow {
	row := dto.ImportRow{Line: line}
	for i, cell := range record {
		if i >= len(setters) || setters[i] == nil {
			continue
		}
		setters[i](&row, strings.TrimSpace(cell))
	}
	return row
}

// Reconcile merges the rows into the registry. Rows are independent: each one
// commits or fails on its own, and a bad row never unwinds its neighbors.
func (s *ImportService) Reconcile(ctx context.Context, rows []dto.ImportRow) (*dto.BatchResult, error) {
	result := &dto.BatchResult{
		BatchID:  uuid.NewString(),
		Errors:   []string{},
		Warnings: []string{},
		Rows:     make([]dto.RowResult, 0, len(rows)),
	}
	seen := make(map[string]int, len(rows))

	for i := range rows {
		rowResult := s.processRow(ctx, &rows[i], seen, result.BatchID)
		result.Rows = append(result.Rows, rowResult)
		switch rowResult.Outcome {
		case dto.RowCreated:
			result.Created++
		case dto.RowUpdated:
			result.Updated++
		case dto.RowError:
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", rowResult.Line, rowResult.Error))
		}
		if rowResult.Warning != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %s", rowResult.Line, rowResult.Warning))
		}
	}

	if s.bus != nil && result.Created+result.Updated > 0 {
		s.bus.Publish(ctx, events.EquipmentChangedEvent{Action: string(entities.ActionImport)})
	}
	s.logger.Info("reconciliation batch finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

func (s *ImportService) processRow(ctx context.Context, row *dto.ImportRow, seen map[string]int, batchID string) dto.RowResult {
	out := dto.RowResult{Line: row.Line}

	inventoryNumber := utils.NormalizeKey(row.InventoryNumber)
	out.InventoryNumber = inventoryNumber
	if len(inventoryNumber) < constants.MinInventoryNumberLength {
		out.Outcome = dto.RowError
		out.Error = fmt.Sprintf("invalid inventory number %q", row.InventoryNumber)
		return out
	}
	if firstLine, dup := seen[inventoryNumber]; dup {
		out.Outcome = dto.RowError
		out.Error = fmt.Sprintf("duplicate inventory number (first seen on row %d)", firstLine)
		return out
	}
	seen[inventoryNumber] = row.Line

	parsed, err := parseRowValues(row)
	if err != nil {
		out.Outcome = dto.RowError
		out.Error = err.Error()
		return out
	}

	created, err := s.mergeEquipment(ctx, inventoryNumber, row, parsed, batchID)
	if err != nil {
		out.Outcome = dto.RowError
		out.Error = err.Error()
		return out
	}
	if created {
		out.Outcome = dto.RowCreated
	} else {
		out.Outcome = dto.RowUpdated
	}

	if parsed.status == nil || *parsed.status != entities.StatusAssigned {
		return out
	}

	// Assignment intent goes through the regular guarded path so imported
	// assignments hit the same invariant checks and audit trail as
	// interactive ones.
	employeeID := utils.NormalizeKey(row.AssignedTo)
	if employeeID == "" {
		out.Outcome = dto.RowError
		out.Error = "status is assigned but no employee given"
		out.Warning = "status coerced to AVAILABLE"
		return out
	}
	_, err = s.assignmentService.Assign(ctx, dto.AssignEquipmentDTO{
		InventoryNumber: inventoryNumber,
		EmployeeID:      employeeID,
		AssignedDate:    parsed.assignedDate,
	})
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrEmployeeNotFound):
		out.Outcome = dto.RowError
		out.Error = fmt.Sprintf("unknown employee ID %q", employeeID)
		out.Warning = "status coerced to AVAILABLE"
	default:
		out.Outcome = dto.RowError
		out.Error = fmt.Sprintf("assign to %q: %v", employeeID, err)
	}
	return out
}

type parsedRow struct {
	// status is nil when the cell was empty: an absent status is not an
	// instruction to move the state machine, it leaves the stored status
	// alone like every other empty cell.
	status           *entities.EquipmentStatus
	purchasePrice    *float64
	depreciationRate *float64
	purchaseDate     null.Time
	assignedDate     null.Time
}

func parseRowValues(row *dto.ImportRow) (*parsedRow, error) {
	p := &parsedRow{}

	if statusText := strings.ToUpper(strings.TrimSpace(row.Status)); statusText != "" {
		status, ok := entities.ParseEquipmentStatus(statusText)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", row.Status)
		}
		p.status = &status
	}

	if row.PurchasePrice != "" {
		v, err := strconv.ParseFloat(row.PurchasePrice, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid purchase price %q", row.PurchasePrice)
		}
		p.purchasePrice = &v
	}
	if row.DepreciationRate != "" {
		v, err := strconv.ParseFloat(row.DepreciationRate, 64)
		if err != nil || v < 0 || v > 100 {
			return nil, fmt.Errorf("invalid depreciation rate %q", row.DepreciationRate)
		}
		p.depreciationRate = &v
	}
	if row.PurchaseDate != "" {
		t, err := time.Parse(constants.DateLayout, row.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("invalid purchase date %q", row.PurchaseDate)
		}
		p.purchaseDate = null.TimeFrom(t)
	}
	if row.AssignedDate != "" {
		t, err := time.Parse(constants.DateLayout, row.AssignedDate)
		if err != nil {
			return nil, fmt.Errorf("invalid assigned date %q", row.AssignedDate)
		}
		p.assignedDate = null.TimeFrom(t)
	}
	return p, nil
}

// mergeEquipment creates or partially updates one equipment record under its
// key lock. Non-empty supplied fields overwrite; empty cells leave existing
// values alone. Returns true when the record was created.
func (s *ImportService) mergeEquipment(ctx context.Context, inventoryNumber string, row *dto.ImportRow, parsed *parsedRow, batchID string) (bool, error) {
	var created bool
	err := s.guard.WithNewEquipmentLock(ctx, inventoryNumber, func(tx pgx.Tx) error {
		existing, err := s.equipmentRepository.FindForUpdate(ctx, tx, inventoryNumber)
		if err != nil && !errors.Is(err, apperrors.ErrEquipmentNotFound) {
			return err
		}

		if existing == nil {
			created = true
			return s.createFromRow(ctx, tx, inventoryNumber, row, parsed, batchID)
		}
		return s.updateFromRow(ctx, tx, existing, row, parsed, batchID)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *ImportService) createFromRow(ctx context.Context, tx pgx.Tx, inventoryNumber string, row *dto.ImportRow, parsed *parsedRow, batchID string) error {
	if row.Name == "" {
		return fmt.Errorf("name is required for new equipment")
	}

	// New records default to AVAILABLE and never start ASSIGNED directly;
	// the assign path sets that after the record exists.
	status := entities.StatusAvailable
	if parsed.status != nil && *parsed.status != entities.StatusAssigned {
		status = *parsed.status
	}

	equipment := &entities.Equipment{
		InventoryNumber: inventoryNumber,
		Name:            row.Name,
		Category:        nullFrom(row.Category),
		Manufacturer:    nullFrom(row.Manufacturer),
		Model:           nullFrom(row.Model),
		SerialNumber:    nullFrom(row.SerialNumber),
		Status:          status,
		PurchaseDate:    parsed.purchaseDate,
	}
	if !equipment.SerialNumber.Valid {
		equipment.SerialNumber = null.StringFrom(constants.SerialNumberPrefix + inventoryNumber)
	}
	if parsed.purchasePrice != nil {
		equipment.PurchasePrice = *parsed.purchasePrice
	}
	if parsed.depreciationRate != nil {
		equipment.DepreciationRate = *parsed.depreciationRate
	}

	id, err := s.equipmentRepository.Create(ctx, tx, equipment)
	if err != nil {
		return err
	}
	equipment.ID = id

	return appendAudit(ctx, tx, s.auditRepository, entities.ActionImport,
		entities.EntityEquipment, inventoryNumber,
		nil, map[string]interface{}{"status": equipment.Status, "name": equipment.Name},
		null.StringFrom(batchID))
}

func (s *ImportService) updateFromRow(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment, row *dto.ImportRow, parsed *parsedRow, batchID string) error {
	before := equipment.Status

	if row.Name != "" {
		equipment.Name = row.Name
	}
	if row.Category != "" {
		equipment.Category = null.StringFrom(row.Category)
	}
	if row.Manufacturer != "" {
		equipment.Manufacturer = null.StringFrom(row.Manufacturer)
	}
	if row.Model != "" {
		equipment.Model = null.StringFrom(row.Model)
	}
	if row.SerialNumber != "" {
		equipment.SerialNumber = null.StringFrom(row.SerialNumber)
	}
	if parsed.purchasePrice != nil {
		equipment.PurchasePrice = *parsed.purchasePrice
	}
	if parsed.depreciationRate != nil {
		equipment.DepreciationRate = *parsed.depreciationRate
	}
	if parsed.purchaseDate.Valid {
		equipment.PurchaseDate = parsed.purchaseDate
	}

	// Status on existing equipment moves through the state machine, and only
	// when the sheet actually supplied one; the assign path handles ASSIGNED
	// after the merge commits, and ledger-held equipment keeps its status
	// regardless of what the sheet claims.
	if parsed.status != nil && *parsed.status != equipment.Status && *parsed.status != entities.StatusAssigned {
		if equipment.Status == entities.StatusAssigned {
			s.logger.Warn("import row cannot change status of assigned equipment",
				zap.String("inventory_number", equipment.InventoryNumber),
				zap.String("requested", string(*parsed.status)))
		} else {
			next, err := equipment.Status.Transition(*parsed.status)
			if err != nil {
				return fmt.Errorf("status %s -> %s: %w", equipment.Status, *parsed.status, err)
			}
			equipment.Status = next
		}
	}

	if err := s.equipmentRepository.Update(ctx, tx, equipment); err != nil {
		return err
	}
	if equipment.Status != before {
		if err := s.equipmentRepository.UpdateStatus(ctx, tx, equipment.ID, equipment.Status); err != nil {
			return err
		}
	}

	return appendAudit(ctx, tx, s.auditRepository, entities.ActionImport,
		entities.EntityEquipment, equipment.InventoryNumber,
		map[string]interface{}{"status": before},
		map[string]interface{}{"status": equipment.Status, "name": equipment.Name},
		null.StringFrom(batchID))
}

func nullFrom(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
