package services

import (
	"context"
	"encoding/json"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	"inventory-system/pkg/utils"
)

// auditValue serializes a before/after snapshot for the audit trail.
func auditValue(v interface{}) null.String {
	if v == nil {
		return null.String{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return null.String{}
	}
	return null.StringFrom(string(raw))
}

func appendAudit(
	ctx context.Context,
	tx pgx.Tx,
	repo repositories.AuditRepositoryInterface,
	action entities.AuditAction,
	entityType, entityID string,
	before, after interface{},
	correlationID null.String,
) error {
	return repo.Append(ctx, tx, &entities.AuditLog{
		Actor:         utils.ActorFromContext(ctx),
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		BeforeValue:   auditValue(before),
		AfterValue:    auditValue(after),
		CorrelationID: correlationID,
	})
}

type AuditService struct {
	auditRepository repositories.AuditRepositoryInterface
	logger          *zap.Logger
}

func NewAuditService(auditRepository repositories.AuditRepositoryInterface, logger *zap.Logger) *AuditService {
	return &AuditService{auditRepository: auditRepository, logger: logger}
}

func (s *AuditService) EntityHistory(ctx context.Context, entityType, entityID string, limit uint64) ([]dto.AuditLogDTO, error) {
	if limit == 0 {
		limit = constants.DefaultPageLimit
	}
	entries, err := s.auditRepository.EntityHistory(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AuditLogDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditLogDTO{
			ID:          e.ID,
			Actor:       e.Actor,
			Action:      string(e.Action),
			EntityType:  e.EntityType,
			EntityID:    e.EntityID,
			BeforeValue: e.BeforeValue.String,
			AfterValue:  e.AfterValue.String,
			CreatedAt:   e.CreatedAt.Format(constants.DateTimeLayout),
		})
	}
	return out, nil
}
