package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

type MaintenanceRepositoryInterface interface {
	OpenByEquipmentID(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.MaintenanceRecord, error)
	Insert(ctx context.Context, tx pgx.Tx, record *entities.MaintenanceRecord) (uint64, error)
	Close(ctx context.Context, tx pgx.Tx, id uint64, performedDate time.Time, cost *float64) error
	HistoryByEquipmentID(ctx context.Context, equipmentID uint64, limit uint64) ([]entities.MaintenanceRecord, error)
	TotalCostByEquipmentID(ctx context.Context, equipmentID uint64) (float64, error)
}

type MaintenanceRepository struct {
	storage *pgxpool.Pool
}

func NewMaintenanceRepository(storage *pgxpool.Pool) MaintenanceRepositoryInterface {
	return &MaintenanceRepository{storage: storage}
}

const maintenanceFields = `id, equipment_id, maintenance_type, description, performed_by,
	cost, performed_date, created_at`

func scanMaintenanceRows(rows pgx.Rows) ([]entities.MaintenanceRecord, error) {
	defer rows.Close()
	var list []entities.MaintenanceRecord
	for rows.Next() {
		var m entities.MaintenanceRecord
		err := rows.Scan(
			&m.ID, &m.EquipmentID, &m.MaintenanceType, &m.Description,
			&m.PerformedBy, &m.Cost, &m.PerformedDate, &m.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *MaintenanceRepository) OpenByEquipmentID(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.MaintenanceRecord, error) {
	rows, err := tx.Query(ctx,
		"SELECT "+maintenanceFields+" FROM maintenance_records WHERE equipment_id = $1 AND performed_date IS NULL",
		equipmentID,
	)
	if err != nil {
		return nil, err
	}
	return scanMaintenanceRows(rows)
}

func (r *MaintenanceRepository) Insert(ctx context.Context, tx pgx.Tx, record *entities.MaintenanceRecord) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx, `
		INSERT INTO maintenance_records (equipment_id, maintenance_type, description,
			performed_by, cost, performed_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		record.EquipmentID,
		record.MaintenanceType,
		record.Description,
		record.PerformedBy,
		record.Cost,
		record.PerformedDate,
	).Scan(&id)
	return id, err
}

func (r *MaintenanceRepository) Close(ctx context.Context, tx pgx.Tx, id uint64, performedDate time.Time, cost *float64) error {
	result, err := tx.Exec(ctx, `
		UPDATE maintenance_records
		SET performed_date = $1, cost = COALESCE($2, cost)
		WHERE id = $3 AND performed_date IS NULL`,
		performedDate, cost, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepository) HistoryByEquipmentID(ctx context.Context, equipmentID uint64, limit uint64) ([]entities.MaintenanceRecord, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT "+maintenanceFields+" FROM maintenance_records WHERE equipment_id = $1 ORDER BY created_at DESC LIMIT $2",
		equipmentID, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanMaintenanceRows(rows)
}

func (r *MaintenanceRepository) TotalCostByEquipmentID(ctx context.Context, equipmentID uint64) (float64, error) {
	var total float64
	err := r.storage.QueryRow(ctx,
		"SELECT COALESCE(SUM(cost), 0) FROM maintenance_records WHERE equipment_id = $1 AND performed_date IS NOT NULL",
		equipmentID,
	).Scan(&total)
	return total, err
}
