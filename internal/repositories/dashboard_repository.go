package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DashboardRepositoryInterface interface {
	CountEquipmentByStatus(ctx context.Context) (map[string]int64, error)
	TotalPurchaseCost(ctx context.Context) (float64, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
}

func NewDashboardRepository(storage *pgxpool.Pool) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage}
}

func (r *DashboardRepository) CountEquipmentByStatus(ctx context.Context) (map[string]int64, error) {
	query, args, err := sq.Select("status", "COUNT(*)").
		From("equipments").
		GroupBy("status").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *DashboardRepository) TotalPurchaseCost(ctx context.Context) (float64, error) {
	query, args, err := sq.Select("COALESCE(SUM(purchase_price), 0)").
		From("equipments").
		Where(sq.NotEq{"status": "RETIRED"}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total float64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}
