package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"

	"github.com/aarondl/null/v8"
)

type EmployeeService struct {
	txManager            repositories.TxManagerInterface
	employeeRepository   repositories.EmployeeRepositoryInterface
	assignmentRepository repositories.AssignmentRepositoryInterface
	auditRepository      repositories.AuditRepositoryInterface
	logger               *zap.Logger
}

func NewEmployeeService(
	txManager repositories.TxManagerInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	assignmentRepository repositories.AssignmentRepositoryInterface,
	auditRepository repositories.AuditRepositoryInterface,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		txManager:            txManager,
		employeeRepository:   employeeRepository,
		assignmentRepository: assignmentRepository,
		auditRepository:      auditRepository,
		logger:               logger,
	}
}

func (s *EmployeeService) Create(ctx context.Context, payload dto.CreateEmployeeDTO) (*dto.EmployeeDTO, error) {
	employee := &entities.Employee{
		EmployeeID: utils.NormalizeKey(payload.EmployeeID),
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		Branch:     payload.Branch,
		Department: payload.Department,
		Position:   payload.Position,
		Email:      entities.NormalizeEmail(payload.Email),
		Phone:      payload.Phone,
		IsActive:   true,
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.employeeRepository.Create(ctx, tx, employee)
		if err != nil {
			return err
		}
		employee.ID = id
		return appendAudit(ctx, tx, s.auditRepository, entities.ActionCreate,
			entities.EntityEmployee, employee.EmployeeID,
			nil, map[string]interface{}{"name": employee.FullName(), "email": employee.Email},
			null.String{})
	})
	if err != nil {
		return nil, err
	}
	return s.toDTO(employee), nil
}

func (s *EmployeeService) Update(ctx context.Context, employeeID string, payload dto.UpdateEmployeeDTO) (*dto.EmployeeDTO, error) {
	employee, err := s.employeeRepository.FindByEmployeeID(ctx, utils.NormalizeKey(employeeID))
	if err != nil {
		return nil, err
	}

	// Deactivation while equipment is still held would strand open ledger
	// rows on an inactive employee.
	if payload.IsActive != nil && !*payload.IsActive && employee.IsActive {
		held, err := s.assignmentRepository.HeldByEmployee(ctx, employee.ID)
		if err != nil {
			return nil, err
		}
		if len(held) > 0 {
			return nil, apperrors.ErrOpenAssignmentExists
		}
	}

	if payload.FirstName != nil {
		employee.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		employee.LastName = *payload.LastName
	}
	if payload.Branch.Valid {
		employee.Branch = payload.Branch
	}
	if payload.Department.Valid {
		employee.Department = payload.Department
	}
	if payload.Position.Valid {
		employee.Position = payload.Position
	}
	if payload.Email != nil {
		employee.Email = entities.NormalizeEmail(*payload.Email)
	}
	if payload.Phone.Valid {
		employee.Phone = payload.Phone
	}
	if payload.IsActive != nil {
		employee.IsActive = *payload.IsActive
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.employeeRepository.Update(ctx, tx, employee); err != nil {
			return err
		}
		return appendAudit(ctx, tx, s.auditRepository, entities.ActionUpdate,
			entities.EntityEmployee, employee.EmployeeID,
			nil, map[string]interface{}{"name": employee.FullName(), "is_active": employee.IsActive},
			null.String{})
	})
	if err != nil {
		return nil, err
	}
	return s.toDTO(employee), nil
}

func (s *EmployeeService) List(ctx context.Context, page, limit int) ([]dto.EmployeeDTO, uint64, error) {
	if limit <= 0 || limit > constants.MaxPageLimit {
		limit = constants.DefaultPageLimit
	}
	if page <= 0 {
		page = 1
	}
	list, total, err := s.employeeRepository.List(ctx, uint64(limit), uint64((page-1)*limit))
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.EmployeeDTO, 0, len(list))
	for i := range list {
		out = append(out, *s.toDTO(&list[i]))
	}
	return out, total, nil
}

// Find returns the employee with everything they currently hold, the
// projection a QR scan of a badge resolves to.
func (s *EmployeeService) Find(ctx context.Context, employeeID string) (*dto.EmployeeViewDTO, error) {
	employee, err := s.employeeRepository.FindByEmployeeID(ctx, utils.NormalizeKey(employeeID))
	if err != nil {
		return nil, err
	}
	held, err := s.assignmentRepository.HeldByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, err
	}

	view := &dto.EmployeeViewDTO{
		Employee:      *s.toDTO(employee),
		HeldEquipment: make([]dto.ShortEquipmentDTO, 0, len(held)),
	}
	for _, h := range held {
		view.HeldEquipment = append(view.HeldEquipment, dto.ShortEquipmentDTO{
			ID:              h.EquipmentID,
			InventoryNumber: h.InventoryNumber,
			Name:            h.EquipmentName,
			Status:          string(entities.StatusAssigned),
		})
	}
	return view, nil
}

func (s *EmployeeService) toDTO(e *entities.Employee) *dto.EmployeeDTO {
	return &dto.EmployeeDTO{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Branch:     e.Branch,
		Department: e.Department,
		Position:   e.Position,
		Email:      e.Email,
		Phone:      e.Phone,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt.Format(constants.DateTimeLayout),
		UpdatedAt:  e.UpdatedAt.Format(constants.DateTimeLayout),
	}
}
