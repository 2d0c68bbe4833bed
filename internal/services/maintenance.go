package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/events"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/utils"

	"github.com/aarondl/null/v8"
)

type MaintenanceService struct {
	guard                 *EquipmentGuard
	equipmentRepository   repositories.EquipmentRepositoryInterface
	assignmentRepository  repositories.AssignmentRepositoryInterface
	maintenanceRepository repositories.MaintenanceRepositoryInterface
	auditRepository       repositories.AuditRepositoryInterface
	bus                   *eventbus.Bus
	clock                 Clock
	logger                *zap.Logger
}

func NewMaintenanceService(
	guard *EquipmentGuard,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	assignmentRepository repositories.AssignmentRepositoryInterface,
	maintenanceRepository repositories.MaintenanceRepositoryInterface,
	auditRepository repositories.AuditRepositoryInterface,
	bus *eventbus.Bus,
	clock Clock,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		guard:                 guard,
		equipmentRepository:   equipmentRepository,
		assignmentRepository:  assignmentRepository,
		maintenanceRepository: maintenanceRepository,
		auditRepository:       auditRepository,
		bus:                   bus,
		clock:                 clock,
		logger:                logger,
	}
}

func (s *MaintenanceService) publishChanged(ctx context.Context, inventoryNumber string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.EquipmentChangedEvent{
		InventoryNumber: inventoryNumber,
		Action:          string(entities.ActionMaintain),
	})
}

// Start opens a maintenance record and moves the equipment to MAINTENANCE.
// Assigned equipment must be returned first; retired equipment never comes
// back.
func (s *MaintenanceService) Start(ctx context.Context, payload dto.StartMaintenanceDTO) (*dto.MaintenanceRecordDTO, error) {
	maintenanceType, ok := entities.ParseMaintenanceType(payload.MaintenanceType)
	if !ok {
		return nil, apperrors.ErrBadRequest
	}

	var result *dto.MaintenanceRecordDTO
	err := s.guard.WithEquipmentLock(ctx, utils.NormalizeKey(payload.InventoryNumber), func(tx pgx.Tx, equipment *entities.Equipment) error {
		open, err := s.assignmentRepository.OpenByEquipmentID(ctx, tx, equipment.ID)
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return apperrors.ErrOpenAssignmentExists
		}

		next, err := equipment.Status.Transition(entities.StatusMaintenance)
		if err != nil {
			return err
		}

		record := &entities.MaintenanceRecord{
			EquipmentID:     equipment.ID,
			MaintenanceType: maintenanceType,
			Description:     payload.Description,
			PerformedBy:     payload.PerformedBy,
			Cost:            payload.Cost,
			CreatedAt:       s.clock.Now(),
		}
		record.ID, err = s.maintenanceRepository.Insert(ctx, tx, record)
		if err != nil {
			return err
		}
		if err := s.equipmentRepository.UpdateStatus(ctx, tx, equipment.ID, next); err != nil {
			return err
		}

		err = appendAudit(ctx, tx, s.auditRepository, entities.ActionMaintain,
			entities.EntityEquipment, equipment.InventoryNumber,
			map[string]interface{}{"status": equipment.Status},
			map[string]interface{}{"status": next, "maintenance_type": maintenanceType, "record_id": record.ID},
			null.String{})
		if err != nil {
			return err
		}
		result = s.toDTO(record, equipment.InventoryNumber)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(ctx, payload.InventoryNumber)
	return result, nil
}

// Finish closes the open maintenance record and restores AVAILABLE. A cost
// passed here overrides the estimate recorded at start.
func (s *MaintenanceService) Finish(ctx context.Context, payload dto.FinishMaintenanceDTO) (*dto.MaintenanceRecordDTO, error) {
	var result *dto.MaintenanceRecordDTO
	err := s.guard.WithEquipmentLock(ctx, utils.NormalizeKey(payload.InventoryNumber), func(tx pgx.Tx, equipment *entities.Equipment) error {
		open, err := s.maintenanceRepository.OpenByEquipmentID(ctx, tx, equipment.ID)
		if err != nil {
			return err
		}
		if len(open) == 0 {
			return apperrors.ErrNotFound
		}
		record := open[0]

		performedDate := s.clock.Now()
		if payload.PerformedDate.Valid {
			performedDate = payload.PerformedDate.Time
		}
		if err := s.maintenanceRepository.Close(ctx, tx, record.ID, performedDate, payload.Cost); err != nil {
			return err
		}

		// Start is legal while already in MAINTENANCE, so more than one
		// record can be open. AVAILABLE is restored only when this close
		// was the last of them.
		remaining, err := s.maintenanceRepository.OpenByEquipmentID(ctx, tx, equipment.ID)
		if err != nil {
			return err
		}
		next := equipment.Status
		if len(remaining) == 0 {
			next, err = equipment.Status.Transition(entities.StatusAvailable)
			if err != nil {
				return err
			}
			if err := s.equipmentRepository.UpdateStatus(ctx, tx, equipment.ID, next); err != nil {
				return err
			}
		}

		err = appendAudit(ctx, tx, s.auditRepository, entities.ActionMaintain,
			entities.EntityEquipment, equipment.InventoryNumber,
			map[string]interface{}{"status": equipment.Status, "record_id": record.ID},
			map[string]interface{}{"status": next},
			null.String{})
		if err != nil {
			return err
		}

		record.PerformedDate = null.TimeFrom(performedDate)
		if payload.Cost != nil {
			record.Cost = *payload.Cost
		}
		result = s.toDTO(&record, equipment.InventoryNumber)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(ctx, payload.InventoryNumber)
	return result, nil
}

// History returns the maintenance records for one equipment together with the
// running total cost.
func (s *MaintenanceService) History(ctx context.Context, inventoryNumber string, limit uint64) ([]dto.MaintenanceRecordDTO, float64, error) {
	equipment, err := s.equipmentRepository.FindByInventoryNumber(ctx, utils.NormalizeKey(inventoryNumber))
	if err != nil {
		return nil, 0, err
	}
	if limit == 0 || limit > constants.MaxPageLimit {
		limit = constants.DefaultPageLimit
	}
	records, err := s.maintenanceRepository.HistoryByEquipmentID(ctx, equipment.ID, limit)
	if err != nil {
		return nil, 0, err
	}
	totalCost, err := s.maintenanceRepository.TotalCostByEquipmentID(ctx, equipment.ID)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.MaintenanceRecordDTO, 0, len(records))
	for i := range records {
		out = append(out, *s.toDTO(&records[i], equipment.InventoryNumber))
	}
	return out, totalCost, nil
}

func (s *MaintenanceService) toDTO(m *entities.MaintenanceRecord, inventoryNumber string) *dto.MaintenanceRecordDTO {
	return &dto.MaintenanceRecordDTO{
		ID:              m.ID,
		InventoryNumber: inventoryNumber,
		MaintenanceType: string(m.MaintenanceType),
		Description:     m.Description,
		PerformedBy:     m.PerformedBy,
		Cost:            m.Cost,
		PerformedDate:   m.PerformedDate,
		Open:            m.IsOpen(),
		CreatedAt:       m.CreatedAt.Format(constants.DateTimeLayout),
	}
}
