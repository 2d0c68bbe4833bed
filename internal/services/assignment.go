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

type AssignmentService struct {
	guard                *EquipmentGuard
	equipmentRepository  repositories.EquipmentRepositoryInterface
	employeeRepository   repositories.EmployeeRepositoryInterface
	assignmentRepository repositories.AssignmentRepositoryInterface
	auditRepository      repositories.AuditRepositoryInterface
	bus                  *eventbus.Bus
	clock                Clock
	logger               *zap.Logger
}

func NewAssignmentService(
	guard *EquipmentGuard,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	assignmentRepository repositories.AssignmentRepositoryInterface,
	auditRepository repositories.AuditRepositoryInterface,
	bus *eventbus.Bus,
	clock Clock,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		guard:                guard,
		equipmentRepository:  equipmentRepository,
		employeeRepository:   employeeRepository,
		assignmentRepository: assignmentRepository,
		auditRepository:      auditRepository,
		bus:                  bus,
		clock:                clock,
		logger:               logger,
	}
}

func (s *AssignmentService) publishChanged(ctx context.Context, inventoryNumber string, action entities.AuditAction) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.EquipmentChangedEvent{
		InventoryNumber: inventoryNumber,
		Action:          string(action),
	})
}

// Assign opens a ledger row handing the equipment to the employee. The whole
// operation runs under the equipment lock: the status read before the lock
// was acquired means nothing, so eligibility is validated on the locked row.
func (s *AssignmentService) Assign(ctx context.Context, payload dto.AssignEquipmentDTO) (*dto.AssignmentDTO, error) {
	var result *dto.AssignmentDTO
	err := s.guard.WithEquipmentLock(ctx, utils.NormalizeKey(payload.InventoryNumber), func(tx pgx.Tx, equipment *entities.Equipment) error {
		// Employee eligibility is read under the lock like the equipment
		// row; a check made before acquisition could race a deactivation.
		employee, err := s.employeeRepository.FindByEmployeeID(ctx, utils.NormalizeKey(payload.EmployeeID))
		if err != nil {
			return err
		}
		if !employee.IsActive {
			return apperrors.ErrEmployeeInactive
		}

		open, err := s.assignmentRepository.OpenByEquipmentID(ctx, tx, equipment.ID)
		if err != nil {
			return err
		}
		if len(open) > 1 {
			s.logger.Error("equipment has multiple open assignments",
				zap.String("inventory_number", equipment.InventoryNumber),
				zap.Int("open_count", len(open)))
			return apperrors.ErrInvariantViolation
		}
		if len(open) == 1 {
			// Re-assigning to the same holder is a no-op, not a conflict.
			if open[0].EmployeeID == employee.ID {
				result = s.toDTO(&entities.AssignmentDetail{
					Assignment:      open[0],
					InventoryNumber: equipment.InventoryNumber,
					EquipmentName:   equipment.Name,
					EmployeeCode:    employee.EmployeeID,
					EmployeeName:    employee.FullName(),
				})
				return nil
			}
			return apperrors.ErrOpenAssignmentExists
		}

		next, err := equipment.Status.Transition(entities.StatusAssigned)
		if err != nil {
			if err == apperrors.ErrIllegalTransition {
				return apperrors.ErrEquipmentNotAvailable
			}
			return err
		}

		assignedDate := s.clock.Now()
		if payload.AssignedDate.Valid {
			assignedDate = payload.AssignedDate.Time
		}
		assignment := &entities.Assignment{
			EquipmentID:        equipment.ID,
			EmployeeID:         employee.ID,
			AssignedDate:       assignedDate,
			ExpectedReturnDate: payload.ExpectedReturnDate,
			ConditionAtAssign:  payload.Condition,
			Notes:              payload.Notes,
			AssignedBy:         null.StringFrom(utils.ActorFromContext(ctx)),
		}
		assignment.ID, err = s.assignmentRepository.Insert(ctx, tx, assignment)
		if err != nil {
			return err
		}
		if err := s.equipmentRepository.UpdateStatus(ctx, tx, equipment.ID, next); err != nil {
			return err
		}

		err = appendAudit(ctx, tx, s.auditRepository, entities.ActionAssign,
			entities.EntityEquipment, equipment.InventoryNumber,
			map[string]interface{}{"status": equipment.Status},
			map[string]interface{}{"status": next, "employee_id": employee.EmployeeID, "assignment_id": assignment.ID},
			null.String{})
		if err != nil {
			return err
		}

		result = s.toDTO(&entities.AssignmentDetail{
			Assignment:      *assignment,
			InventoryNumber: equipment.InventoryNumber,
			EquipmentName:   equipment.Name,
			EmployeeCode:    employee.EmployeeID,
			EmployeeName:    employee.FullName(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(ctx, payload.InventoryNumber, entities.ActionAssign)
	return result, nil
}

// Return closes the open ledger row and moves the equipment back to
// AVAILABLE. Returning equipment with nothing checked out is a conflict;
// finding more than one open row is an integrity failure, not a user error.
func (s *AssignmentService) Return(ctx context.Context, payload dto.ReturnEquipmentDTO) (*dto.AssignmentDTO, error) {
	var result *dto.AssignmentDTO
	err := s.guard.WithEquipmentLock(ctx, utils.NormalizeKey(payload.InventoryNumber), func(tx pgx.Tx, equipment *entities.Equipment) error {
		open, err := s.assignmentRepository.OpenByEquipmentID(ctx, tx, equipment.ID)
		if err != nil {
			return err
		}
		switch {
		case len(open) == 0:
			return apperrors.ErrNoOpenAssignment
		case len(open) > 1:
			s.logger.Error("equipment has multiple open assignments",
				zap.String("inventory_number", equipment.InventoryNumber),
				zap.Int("open_count", len(open)))
			return apperrors.ErrInvariantViolation
		}
		current := open[0]

		returnDate := s.clock.Now()
		if payload.ReturnDate.Valid {
			returnDate = payload.ReturnDate.Time
		}
		actor := utils.ActorFromContext(ctx)
		err = s.assignmentRepository.Close(ctx, tx, current.ID, returnDate, payload.Condition, payload.Notes, actor)
		if err != nil {
			return err
		}

		next, err := equipment.Status.Transition(entities.StatusAvailable)
		if err != nil {
			return err
		}
		if err := s.equipmentRepository.UpdateStatus(ctx, tx, equipment.ID, next); err != nil {
			return err
		}

		err = appendAudit(ctx, tx, s.auditRepository, entities.ActionReturn,
			entities.EntityEquipment, equipment.InventoryNumber,
			map[string]interface{}{"status": equipment.Status, "assignment_id": current.ID},
			map[string]interface{}{"status": next},
			null.String{})
		if err != nil {
			return err
		}

		closed := current
		closed.ReturnDate = null.TimeFrom(returnDate)
		closed.ConditionAtReturn = payload.Condition
		closed.ReturnedBy = null.StringFrom(actor)
		result = s.toDTO(&entities.AssignmentDetail{
			Assignment:      closed,
			InventoryNumber: equipment.InventoryNumber,
			EquipmentName:   equipment.Name,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishChanged(ctx, payload.InventoryNumber, entities.ActionReturn)
	return result, nil
}

// CurrentHolder returns the open assignment for the equipment, or nil when it
// is not checked out. Read-only: no lock is taken.
func (s *AssignmentService) CurrentHolder(ctx context.Context, inventoryNumber string) (*dto.AssignmentDTO, error) {
	equipment, err := s.equipmentRepository.FindByInventoryNumber(ctx, utils.NormalizeKey(inventoryNumber))
	if err != nil {
		return nil, err
	}
	detail, err := s.assignmentRepository.CurrentHolder(ctx, equipment.ID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, nil
	}
	return s.toDTO(detail), nil
}

// Overdue lists open assignments whose expected return date has passed.
func (s *AssignmentService) Overdue(ctx context.Context) ([]dto.AssignmentDTO, error) {
	details, err := s.assignmentRepository.Overdue(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentDTO, 0, len(details))
	for i := range details {
		out = append(out, *s.toDTO(&details[i]))
	}
	return out, nil
}

// HistoryByEmployee returns the employee's ledger rows, newest first.
func (s *AssignmentService) HistoryByEmployee(ctx context.Context, employeeID string, limit uint64) ([]dto.AssignmentDTO, error) {
	employee, err := s.employeeRepository.FindByEmployeeID(ctx, utils.NormalizeKey(employeeID))
	if err != nil {
		return nil, err
	}
	if limit == 0 || limit > constants.MaxPageLimit {
		limit = constants.DefaultPageLimit
	}
	details, err := s.assignmentRepository.HistoryByEmployee(ctx, employee.ID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentDTO, 0, len(details))
	for i := range details {
		out = append(out, *s.toDTO(&details[i]))
	}
	return out, nil
}

func (s *AssignmentService) toDTO(d *entities.AssignmentDetail) *dto.AssignmentDTO {
	now := s.clock.Now()
	return &dto.AssignmentDTO{
		ID:                 d.ID,
		EquipmentID:        d.EquipmentID,
		InventoryNumber:    d.InventoryNumber,
		EquipmentName:      d.EquipmentName,
		EmployeeID:         d.EmployeeCode,
		EmployeeName:       d.EmployeeName,
		AssignedDate:       d.AssignedDate.Format(constants.DateLayout),
		ExpectedReturnDate: d.ExpectedReturnDate,
		ReturnDate:         d.ReturnDate,
		ConditionAtAssign:  d.ConditionAtAssign,
		ConditionAtReturn:  d.ConditionAtReturn,
		Notes:              d.Notes,
		DaysHeld:           d.DaysHeld(now),
		Overdue:            d.IsOverdue(now),
	}
}
