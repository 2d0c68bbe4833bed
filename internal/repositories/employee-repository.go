package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

const employeeFields = `id, employee_id, first_name, last_name, branch, department,
	position, email, phone, is_active, created_at, updated_at`

type EmployeeRepositoryInterface interface {
	List(ctx context.Context, limit, offset uint64) ([]entities.Employee, uint64, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (*entities.Employee, error)
	Create(ctx context.Context, tx pgx.Tx, employee *entities.Employee) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error
	Count(ctx context.Context) (int64, error)
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
}

func NewEmployeeRepository(storage *pgxpool.Pool) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.FirstName,
		&e.LastName,
		&e.Branch,
		&e.Department,
		&e.Position,
		&e.Email,
		&e.Phone,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) List(ctx context.Context, limit, offset uint64) ([]entities.Employee, uint64, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM employees ORDER BY last_name, first_name LIMIT $1 OFFSET $2",
		employeeFields,
	)
	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []entities.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *e)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM employees").Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *EmployeeRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*entities.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees WHERE employee_id = $1", employeeFields)
	return scanEmployee(r.storage.QueryRow(ctx, query, employeeID))
}

func (r *EmployeeRepository) Create(ctx context.Context, tx pgx.Tx, employee *entities.Employee) (uint64, error) {
	query := `
		INSERT INTO employees (employee_id, first_name, last_name, branch, department,
			position, email, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		employee.EmployeeID,
		employee.FirstName,
		employee.LastName,
		employee.Branch,
		employee.Department,
		employee.Position,
		entities.NormalizeEmail(employee.Email),
		employee.Phone,
		employee.IsActive,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, tx pgx.Tx, employee *entities.Employee) error {
	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, branch = $3, department = $4,
			position = $5, email = $6, phone = $7, is_active = $8, updated_at = NOW()
		WHERE id = $9`

	result, err := tx.Exec(ctx, query,
		employee.FirstName,
		employee.LastName,
		employee.Branch,
		employee.Department,
		employee.Position,
		entities.NormalizeEmail(employee.Email),
		employee.Phone,
		employee.IsActive,
		employee.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE is_active").Scan(&n)
	return n, err
}
