package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
)

type InventoryCheckRepositoryInterface interface {
	Insert(ctx context.Context, tx pgx.Tx, check *entities.InventoryCheck) (uint64, error)
	ByEquipmentID(ctx context.Context, equipmentID uint64, limit uint64) ([]entities.InventoryCheck, error)
	Recent(ctx context.Context, limit int) ([]entities.InventoryCheck, error)
}

type InventoryCheckRepository struct {
	storage *pgxpool.Pool
}

func NewInventoryCheckRepository(storage *pgxpool.Pool) InventoryCheckRepositoryInterface {
	return &InventoryCheckRepository{storage: storage}
}

const checkFields = `id, equipment_id, check_type, check_date, location, condition,
	is_functional, checked_by, notes, created_at`

func scanCheckRows(rows pgx.Rows) ([]entities.InventoryCheck, error) {
	defer rows.Close()
	var list []entities.InventoryCheck
	for rows.Next() {
		var c entities.InventoryCheck
		err := rows.Scan(
			&c.ID, &c.EquipmentID, &c.CheckType, &c.CheckDate, &c.Location,
			&c.Condition, &c.IsFunctional, &c.CheckedBy, &c.Notes, &c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *InventoryCheckRepository) Insert(ctx context.Context, tx pgx.Tx, check *entities.InventoryCheck) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx, `
		INSERT INTO inventory_checks (equipment_id, check_type, check_date, location,
			condition, is_functional, checked_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		check.EquipmentID,
		check.CheckType,
		check.CheckDate,
		check.Location,
		check.Condition,
		check.IsFunctional,
		check.CheckedBy,
		check.Notes,
	).Scan(&id)
	return id, err
}

func (r *InventoryCheckRepository) ByEquipmentID(ctx context.Context, equipmentID uint64, limit uint64) ([]entities.InventoryCheck, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT "+checkFields+" FROM inventory_checks WHERE equipment_id = $1 ORDER BY check_date DESC LIMIT $2",
		equipmentID, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanCheckRows(rows)
}

func (r *InventoryCheckRepository) Recent(ctx context.Context, limit int) ([]entities.InventoryCheck, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT "+checkFields+" FROM inventory_checks ORDER BY check_date DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, err
	}
	return scanCheckRows(rows)
}
