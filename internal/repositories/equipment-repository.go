package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/constants"
)

const equipmentFields = `id, inventory_number, name, category, branch, manufacturer, model,
	serial_number, status, purchase_price, depreciation_rate, purchase_date,
	warranty_expiry, created_at, updated_at`

type EquipmentRepositoryInterface interface {
	List(ctx context.Context, filter dto.EquipmentFilterDTO) ([]entities.Equipment, uint64, error)
	FindByInventoryNumber(ctx context.Context, inventoryNumber string) (*entities.Equipment, error)
	// FindForUpdate re-reads the equipment row under FOR UPDATE inside tx.
	// Every mutating operation re-validates status on the row this returns,
	// never on a copy read before the lock.
	FindForUpdate(ctx context.Context, tx pgx.Tx, inventoryNumber string) (*entities.Equipment, error)
	Create(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.EquipmentStatus) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID,
		&e.InventoryNumber,
		&e.Name,
		&e.Category,
		&e.Branch,
		&e.Manufacturer,
		&e.Model,
		&e.SerialNumber,
		&e.Status,
		&e.PurchasePrice,
		&e.DepreciationRate,
		&e.PurchaseDate,
		&e.WarrantyExpiry,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) List(ctx context.Context, filter dto.EquipmentFilterDTO) ([]entities.Equipment, uint64, error) {
	base := sq.Select(equipmentFields).From("equipments").PlaceholderFormat(sq.Dollar)
	countBase := sq.Select("COUNT(*)").From("equipments").PlaceholderFormat(sq.Dollar)

	applyFilter := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Status != "" {
			b = b.Where(sq.Eq{"status": filter.Status})
		}
		if filter.Branch != "" {
			b = b.Where(sq.Eq{"branch": filter.Branch})
		}
		if filter.Category != "" {
			b = b.Where(sq.Eq{"category": filter.Category})
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			b = b.Where(sq.Or{
				sq.ILike{"name": pattern},
				sq.ILike{"inventory_number": pattern},
				sq.ILike{"serial_number": pattern},
			})
		}
		return b
	}

	limit := filter.Limit
	if limit <= 0 || limit > constants.MaxPageLimit {
		limit = constants.DefaultPageLimit
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	query, args, err := applyFilter(base).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []entities.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *e)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	countQuery, countArgs, err := applyFilter(countBase).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *EquipmentRepository) FindByInventoryNumber(ctx context.Context, inventoryNumber string) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipments WHERE inventory_number = $1", equipmentFields)
	return scanEquipment(r.storage.QueryRow(ctx, query, inventoryNumber))
}

func (r *EquipmentRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, inventoryNumber string) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipments WHERE inventory_number = $1 FOR UPDATE", equipmentFields)
	return scanEquipment(tx.QueryRow(ctx, query, inventoryNumber))
}

func (r *EquipmentRepository) Create(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment) (uint64, error) {
	query := `
		INSERT INTO equipments (inventory_number, name, category, branch, manufacturer,
			model, serial_number, status, purchase_price, depreciation_rate,
			purchase_date, warranty_expiry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		equipment.InventoryNumber,
		equipment.Name,
		equipment.Category,
		equipment.Branch,
		equipment.Manufacturer,
		equipment.Model,
		equipment.SerialNumber,
		equipment.Status,
		equipment.PurchasePrice,
		equipment.DepreciationRate,
		equipment.PurchaseDate,
		equipment.WarrantyExpiry,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *EquipmentRepository) Update(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment) error {
	query := `
		UPDATE equipments
		SET name = $1, category = $2, branch = $3, manufacturer = $4, model = $5,
			serial_number = $6, purchase_price = $7, depreciation_rate = $8,
			purchase_date = $9, warranty_expiry = $10, updated_at = NOW()
		WHERE id = $11`

	result, err := tx.Exec(ctx, query,
		equipment.Name,
		equipment.Category,
		equipment.Branch,
		equipment.Manufacturer,
		equipment.Model,
		equipment.SerialNumber,
		equipment.PurchasePrice,
		equipment.DepreciationRate,
		equipment.PurchaseDate,
		equipment.WarrantyExpiry,
		equipment.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrEquipmentNotFound
	}
	return nil
}

func (r *EquipmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.EquipmentStatus) error {
	result, err := tx.Exec(ctx,
		"UPDATE equipments SET status = $1, updated_at = NOW() WHERE id = $2",
		status, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrEquipmentNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
