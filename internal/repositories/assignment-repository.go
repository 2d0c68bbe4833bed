package repositories

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

const assignmentDetailFields = `a.id, a.equipment_id, a.employee_id, a.assigned_date,
	a.expected_return_date, a.return_date, a.condition_at_assign, a.condition_at_return,
	a.notes, a.assigned_by, a.returned_by,
	eq.inventory_number, eq.name, em.employee_id, em.first_name || ' ' || em.last_name`

const assignmentDetailJoin = `
	FROM assignments a
	JOIN equipments eq ON eq.id = a.equipment_id
	JOIN employees em ON em.id = a.employee_id`

type AssignmentRepositoryInterface interface {
	// OpenByEquipmentID returns every open ledger row for one equipment.
	// Callers expect zero or one; anything more is the integrity bug the
	// services check for.
	OpenByEquipmentID(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.Assignment, error)
	Insert(ctx context.Context, tx pgx.Tx, assignment *entities.Assignment) (uint64, error)
	Close(ctx context.Context, tx pgx.Tx, id uint64, returnDate time.Time, condition, notes null.String, returnedBy string) error

	CurrentHolder(ctx context.Context, equipmentID uint64) (*entities.AssignmentDetail, error)
	HeldByEmployee(ctx context.Context, employeeID uint64) ([]entities.AssignmentDetail, error)
	HistoryByEmployee(ctx context.Context, employeeID uint64, limit uint64) ([]entities.AssignmentDetail, error)
	Overdue(ctx context.Context, now time.Time) ([]entities.AssignmentDetail, error)
	OverdueCount(ctx context.Context, now time.Time) (int64, error)
	Recent(ctx context.Context, limit int) ([]entities.AssignmentDetail, error)
}

type AssignmentRepository struct {
	storage *pgxpool.Pool
}

func NewAssignmentRepository(storage *pgxpool.Pool) AssignmentRepositoryInterface {
	return &AssignmentRepository{storage: storage}
}

func scanAssignmentDetail(row pgx.Row) (*entities.AssignmentDetail, error) {
	var d entities.AssignmentDetail
	err := row.Scan(
		&d.ID,
		&d.EquipmentID,
		&d.EmployeeID,
		&d.AssignedDate,
		&d.ExpectedReturnDate,
		&d.ReturnDate,
		&d.ConditionAtAssign,
		&d.ConditionAtReturn,
		&d.Notes,
		&d.AssignedBy,
		&d.ReturnedBy,
		&d.InventoryNumber,
		&d.EquipmentName,
		&d.EmployeeCode,
		&d.EmployeeName,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *AssignmentRepository) queryDetails(ctx context.Context, query string, args ...any) ([]entities.AssignmentDetail, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.AssignmentDetail
	for rows.Next() {
		d, err := scanAssignmentDetail(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	return list, rows.Err()
}

func (r *AssignmentRepository) OpenByEquipmentID(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.Assignment, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, equipment_id, employee_id, assigned_date, expected_return_date,
			return_date, condition_at_assign, condition_at_return, notes,
			assigned_by, returned_by
		FROM assignments
		WHERE equipment_id = $1 AND return_date IS NULL`,
		equipmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.Assignment
	for rows.Next() {
		var a entities.Assignment
		err := rows.Scan(
			&a.ID, &a.EquipmentID, &a.EmployeeID, &a.AssignedDate,
			&a.ExpectedReturnDate, &a.ReturnDate, &a.ConditionAtAssign,
			&a.ConditionAtReturn, &a.Notes, &a.AssignedBy, &a.ReturnedBy,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AssignmentRepository) Insert(ctx context.Context, tx pgx.Tx, assignment *entities.Assignment) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx, `
		INSERT INTO assignments (equipment_id, employee_id, assigned_date,
			expected_return_date, condition_at_assign, notes, assigned_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		assignment.EquipmentID,
		assignment.EmployeeID,
		assignment.AssignedDate,
		assignment.ExpectedReturnDate,
		assignment.ConditionAtAssign,
		assignment.Notes,
		assignment.AssignedBy,
	).Scan(&id)
	if err != nil {
		// The partial unique index on open assignments fires when a second
		// open row would be created for the same equipment.
		if isUniqueViolation(err) {
			return 0, apperrors.ErrOpenAssignmentExists
		}
		return 0, err
	}
	return id, nil
}

func (r *AssignmentRepository) Close(ctx context.Context, tx pgx.Tx, id uint64, returnDate time.Time, condition, notes null.String, returnedBy string) error {
	result, err := tx.Exec(ctx, `
		UPDATE assignments
		SET return_date = $1, condition_at_return = $2,
			notes = COALESCE($3, notes), returned_by = $4
		WHERE id = $5 AND return_date IS NULL`,
		returnDate, condition, notes, returnedBy, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNoOpenAssignment
	}
	return nil
}

func (r *AssignmentRepository) CurrentHolder(ctx context.Context, equipmentID uint64) (*entities.AssignmentDetail, error) {
	d, err := scanAssignmentDetail(r.storage.QueryRow(ctx,
		"SELECT "+assignmentDetailFields+assignmentDetailJoin+
			" WHERE a.equipment_id = $1 AND a.return_date IS NULL",
		equipmentID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

func (r *AssignmentRepository) HeldByEmployee(ctx context.Context, employeeID uint64) ([]entities.AssignmentDetail, error) {
	return r.queryDetails(ctx,
		"SELECT "+assignmentDetailFields+assignmentDetailJoin+
			" WHERE a.employee_id = $1 AND a.return_date IS NULL ORDER BY a.assigned_date DESC",
		employeeID,
	)
}

func (r *AssignmentRepository) HistoryByEmployee(ctx context.Context, employeeID uint64, limit uint64) ([]entities.AssignmentDetail, error) {
	return r.queryDetails(ctx,
		"SELECT "+assignmentDetailFields+assignmentDetailJoin+
			" WHERE a.employee_id = $1 ORDER BY a.assigned_date DESC LIMIT $2",
		employeeID, limit,
	)
}

func (r *AssignmentRepository) Overdue(ctx context.Context, now time.Time) ([]entities.AssignmentDetail, error) {
	return r.queryDetails(ctx,
		"SELECT "+assignmentDetailFields+assignmentDetailJoin+
			" WHERE a.return_date IS NULL AND a.expected_return_date < $1 ORDER BY a.expected_return_date",
		now,
	)
}

func (r *AssignmentRepository) OverdueCount(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.storage.QueryRow(ctx,
		"SELECT COUNT(*) FROM assignments WHERE return_date IS NULL AND expected_return_date < $1",
		now,
	).Scan(&n)
	return n, err
}

func (r *AssignmentRepository) Recent(ctx context.Context, limit int) ([]entities.AssignmentDetail, error) {
	return r.queryDetails(ctx,
		"SELECT "+assignmentDetailFields+assignmentDetailJoin+
			" ORDER BY a.assigned_date DESC LIMIT $1",
		limit,
	)
}
