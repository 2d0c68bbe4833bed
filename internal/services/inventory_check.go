package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	"inventory-system/pkg/utils"

	"github.com/aarondl/null/v8"
)

type InventoryCheckService struct {
	txManager           repositories.TxManagerInterface
	equipmentRepository repositories.EquipmentRepositoryInterface
	checkRepository     repositories.InventoryCheckRepositoryInterface
	auditRepository     repositories.AuditRepositoryInterface
	clock               Clock
	logger              *zap.Logger
}

func NewInventoryCheckService(
	txManager repositories.TxManagerInterface,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	checkRepository repositories.InventoryCheckRepositoryInterface,
	auditRepository repositories.AuditRepositoryInterface,
	clock Clock,
	logger *zap.Logger,
) *InventoryCheckService {
	return &InventoryCheckService{
		txManager:           txManager,
		equipmentRepository: equipmentRepository,
		checkRepository:     checkRepository,
		auditRepository:     auditRepository,
		clock:               clock,
		logger:              logger,
	}
}

// Record writes a check snapshot. Checks never change the equipment record,
// so no equipment lock is taken here.
func (s *InventoryCheckService) Record(ctx context.Context, payload dto.CreateInventoryCheckDTO) (*dto.InventoryCheckDTO, error) {
	equipment, err := s.equipmentRepository.FindByInventoryNumber(ctx, utils.NormalizeKey(payload.InventoryNumber))
	if err != nil {
		return nil, err
	}

	check := &entities.InventoryCheck{
		EquipmentID:  equipment.ID,
		CheckType:    entities.CheckType(payload.CheckType),
		CheckDate:    s.clock.Now(),
		Location:     payload.Location,
		Condition:    payload.Condition,
		IsFunctional: payload.IsFunctional,
		CheckedBy:    utils.ActorFromContext(ctx),
		Notes:        payload.Notes,
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.checkRepository.Insert(ctx, tx, check)
		if err != nil {
			return err
		}
		check.ID = id
		return appendAudit(ctx, tx, s.auditRepository, entities.ActionCheck,
			entities.EntityEquipment, equipment.InventoryNumber,
			nil, map[string]interface{}{"check_type": check.CheckType, "is_functional": check.IsFunctional},
			null.String{})
	})
	if err != nil {
		return nil, err
	}
	return s.toDTO(check, equipment.InventoryNumber), nil
}

func (s *InventoryCheckService) History(ctx context.Context, inventoryNumber string, limit uint64) ([]dto.InventoryCheckDTO, error) {
	equipment, err := s.equipmentRepository.FindByInventoryNumber(ctx, utils.NormalizeKey(inventoryNumber))
	if err != nil {
		return nil, err
	}
	if limit == 0 || limit > constants.MaxPageLimit {
		limit = constants.DefaultPageLimit
	}
	checks, err := s.checkRepository.ByEquipmentID(ctx, equipment.ID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryCheckDTO, 0, len(checks))
	for i := range checks {
		out = append(out, *s.toDTO(&checks[i], equipment.InventoryNumber))
	}
	return out, nil
}

func (s *InventoryCheckService) toDTO(c *entities.InventoryCheck, inventoryNumber string) *dto.InventoryCheckDTO {
	return &dto.InventoryCheckDTO{
		ID:              c.ID,
		InventoryNumber: inventoryNumber,
		CheckType:       string(c.CheckType),
		CheckDate:       c.CheckDate.Format(constants.DateTimeLayout),
		Location:        c.Location,
		Condition:       c.Condition,
		IsFunctional:    c.IsFunctional,
		CheckedBy:       c.CheckedBy,
		Notes:           c.Notes,
	}
}
