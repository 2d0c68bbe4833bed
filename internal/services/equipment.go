package services

import (
	"context"

	"github.com/aarondl/null/v8"
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
)

type EquipmentService struct {
	guard                 *EquipmentGuard
	equipmentRepository   repositories.EquipmentRepositoryInterface
	assignmentRepository  repositories.AssignmentRepositoryInterface
	maintenanceRepository repositories.MaintenanceRepositoryInterface
	auditRepository       repositories.AuditRepositoryInterface
	bus                   *eventbus.Bus
	clock                 Clock
	logger                *zap.Logger
}

func NewEquipmentService(
	guard *EquipmentGuard,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	assignmentRepository repositories.AssignmentRepositoryInterface,
	maintenanceRepository repositories.MaintenanceRepositoryInterface,
	auditRepository repositories.AuditRepositoryInterface,
	bus *eventbus.Bus,
	clock Clock,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
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

func (s *EquipmentService) publishChanged(ctx context.Context, inventoryNumber string, action entities.AuditAction) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.EquipmentChangedEvent{
		InventoryNumber: inventoryNumber,
		Action:          string(action),
	})
}

// Create registers new equipment. New records always start AVAILABLE; a
// missing serial number defaults to "SN-" plus the inventory number.
func (s *EquipmentService) Create(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	inventoryNumber := utils.NormalizeKey(payload.InventoryNumber)

	equipment := &entities.Equipment{
		InventoryNumber:  inventoryNumber,
		Name:             payload.Name,
		Category:         payload.Category,
		Branch:           payload.Branch,
		Manufacturer:     payload.Manufacturer,
		Model:            payload.Model,
		SerialNumber:     payload.SerialNumber,
		Status:           entities.StatusAvailable,
		PurchasePrice:    payload.PurchasePrice,
		DepreciationRate: payload.DepreciationRate,
		PurchaseDate:     payload.PurchaseDate,
		WarrantyExpiry:   payload.WarrantyExpiry,
	}
	if !equipment.SerialNumber.Valid || equipment.SerialNumber.String == "" {
		equipment.SerialNumber = null.StringFrom(constants.SerialNumberPrefix + inventoryNumber)
	}

	err := s.guard.WithNewEquipmentLock(ctx, inventoryNumber, func(tx pgx.Tx) error {
		id, err := s.equipmentRepository.Create(ctx, tx, equipment)
		if err != nil {
			return err
		}
		equipment.ID = id
		return appendAudit(ctx, tx, s.auditRepository, entities.ActionCreate,
			entities.EntityEquipment, inventoryNumber,
			nil, map[string]interface{}{"status": equipment.Status, "name": equipment.Name},
			null.String{})
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(ctx, inventoryNumber, entities.ActionCreate)
	return s.toDTO(equipment), nil
}

// Update patches descriptive fields. Status is deliberately untouchable here;
// it only moves through assign, return, maintenance and retire.
func (s *EquipmentService) Update(ctx context.Context, inventoryNumber string, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	var updated *entities.Equipment
	err := s.guard.WithEquipmentLock(ctx, utils.NormalizeKey(inventoryNumber), func(tx pgx.Tx, equipment *entities.Equipment) error {
		before := *equipment

		if payload.Name != nil {
			equipment.Name = *payload.Name
		}
		if payload.Category.Valid {
			equipment.Category = payload.Category
		}
		if payload.Branch.Valid {
			equipment.Branch = payload.Branch
		}
		if payload.Manufacturer.Valid {
			equipment.Manufacturer = payload.Manufacturer
		}
		if payload.Model.Valid {
			equipment.Model = payload.Model
		}
		if payload.SerialNumber.Valid {
			equipment.SerialNumber = payload.SerialNumber
		}
		if payload.PurchasePrice != nil {
			equipment.PurchasePrice = *payload.PurchasePrice
		}
		if payload.DepreciationRate != nil {
			equipment.DepreciationRate = *payload.DepreciationRate
		}
		if payload.PurchaseDate.Valid {
			equipment.PurchaseDate = payload.PurchaseDate
		}
		if payload.WarrantyExpiry.Valid {
			equipment.WarrantyExpiry = payload.WarrantyExpiry
		}

		if err := s.equipmentRepository.Update(ctx, tx, equipment); err != nil {
			return err
		}
		updated = equipment
		return appendAudit(ctx, tx, s.auditRepository, entities.ActionUpdate,
			entities.EntityEquipment, equipment.InventoryNumber,
			map[string]interface{}{"name": before.Name, "serial_number": before.SerialNumber},
			map[string]interface{}{"name": equipment.Name, "serial_number": equipment.SerialNumber},
			null.String{})
	})
	if err != nil {
		return nil, err
	}
	return s.toDTO(updated), nil
}

// Retire moves the equipment to its terminal state. Equipment with an open
// assignment or an open maintenance record cannot be retired.
func (s *EquipmentService) Retire(ctx context.Context, inventoryNumber string, reason string) (*dto.EquipmentDTO, error) {
	var retired *entities.Equipment
	err := s.guard.WithEquipmentLock(ctx, utils.NormalizeKey(inventoryNumber), func(tx pgx.Tx, equipment *entities.Equipment) error {
		open, err := s.assignmentRepository.OpenByEquipmentID(ctx, tx, equipment.ID)
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return apperrors.ErrOpenAssignmentExists
		}
		openMaintenance, err := s.maintenanceRepository.OpenByEquipmentID(ctx, tx, equipment.ID)
		if err != nil {
			return err
		}
		if len(openMaintenance) > 0 {
			return apperrors.ErrIllegalTransition
		}

		next, err := equipment.Status.Transition(entities.StatusRetired)
		if err != nil {
			return err
		}
		if err := s.equipmentRepository.UpdateStatus(ctx, tx, equipment.ID, next); err != nil {
			return err
		}

		err = appendAudit(ctx, tx, s.auditRepository, entities.ActionRetire,
			entities.EntityEquipment, equipment.InventoryNumber,
			map[string]interface{}{"status": equipment.Status},
			map[string]interface{}{"status": next, "reason": reason},
			null.String{})
		if err != nil {
			return err
		}
		equipment.Status = next
		retired = equipment
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(ctx, retired.InventoryNumber, entities.ActionRetire)
	return s.toDTO(retired), nil
}

func (s *EquipmentService) List(ctx context.Context, filter dto.EquipmentFilterDTO) ([]dto.EquipmentDTO, uint64, error) {
	if filter.Limit <= 0 || filter.Limit > constants.MaxPageLimit {
		filter.Limit = constants.DefaultPageLimit
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	list, total, err := s.equipmentRepository.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.EquipmentDTO, 0, len(list))
	for i := range list {
		out = append(out, *s.toDTO(&list[i]))
	}
	return out, total, nil
}

// Find returns the equipment with its current holder, the projection a QR
// scan of an equipment label resolves to.
func (s *EquipmentService) Find(ctx context.Context, inventoryNumber string) (*dto.EquipmentViewDTO, error) {
	equipment, err := s.equipmentRepository.FindByInventoryNumber(ctx, utils.NormalizeKey(inventoryNumber))
	if err != nil {
		return nil, err
	}

	view := &dto.EquipmentViewDTO{Equipment: *s.toDTO(equipment)}
	holder, err := s.assignmentRepository.CurrentHolder(ctx, equipment.ID)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		view.CurrentHolder = &dto.ShortEmployeeDTO{
			ID:         holder.EmployeeID,
			EmployeeID: holder.EmployeeCode,
			FullName:   holder.EmployeeName,
		}
		view.AssignedSince = null.TimeFrom(holder.AssignedDate)
	}
	return view, nil
}

func (s *EquipmentService) toDTO(e *entities.Equipment) *dto.EquipmentDTO {
	now := s.clock.Now()
	return &dto.EquipmentDTO{
		ID:               e.ID,
		InventoryNumber:  e.InventoryNumber,
		Name:             e.Name,
		Category:         e.Category,
		Branch:           e.Branch,
		Manufacturer:     e.Manufacturer,
		Model:            e.Model,
		SerialNumber:     e.SerialNumber,
		Status:           string(e.Status),
		PurchasePrice:    e.PurchasePrice,
		DepreciationRate: e.DepreciationRate,
		CurrentValue:     e.CurrentValue(now),
		PurchaseDate:     e.PurchaseDate,
		WarrantyExpiry:   e.WarrantyExpiry,
		WarrantyActive:   e.IsWarrantyActive(now),
		CreatedAt:        e.CreatedAt.Format(constants.DateTimeLayout),
		UpdatedAt:        e.UpdatedAt.Format(constants.DateTimeLayout),
	}
}
