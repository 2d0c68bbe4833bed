package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
)

type AuditRepositoryInterface interface {
	// Append writes an audit entry inside the same transaction as the state
	// change it records.
	Append(ctx context.Context, tx pgx.Tx, entry *entities.AuditLog) error
	EntityHistory(ctx context.Context, entityType, entityID string, limit uint64) ([]entities.AuditLog, error)
}

type AuditRepository struct {
	storage *pgxpool.Pool
}

func NewAuditRepository(storage *pgxpool.Pool) AuditRepositoryInterface {
	return &AuditRepository{storage: storage}
}

func (r *AuditRepository) Append(ctx context.Context, tx pgx.Tx, entry *entities.AuditLog) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO audit_logs (actor, action, entity_type, entity_id,
			before_value, after_value, correlation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.Actor,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.BeforeValue,
		entry.AfterValue,
		entry.CorrelationID,
	)
	return err
}

func (r *AuditRepository) EntityHistory(ctx context.Context, entityType, entityID string, limit uint64) ([]entities.AuditLog, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id, actor, action, entity_type, entity_id, before_value,
			after_value, correlation_id, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3`,
		entityType, entityID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.AuditLog
	for rows.Next() {
		var e entities.AuditLog
		err := rows.Scan(
			&e.ID, &e.Actor, &e.Action, &e.EntityType, &e.EntityID,
			&e.BeforeValue, &e.AfterValue, &e.CorrelationID, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
