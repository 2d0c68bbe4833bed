package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
)

const (
	qrKindEquipment = "equipment"
	qrKindEmployee  = "employee"
)

// QRService resolves scanned label payloads. Payloads are plain prefixed
// strings ("EQUIPMENT:INV-001", "EMPLOYEE:EMP-042"); image rendering happens
// client-side.
type QRService struct {
	equipmentService *EquipmentService
	employeeService  *EmployeeService
	logger           *zap.Logger
}

func NewQRService(equipmentService *EquipmentService, employeeService *EmployeeService, logger *zap.Logger) *QRService {
	return &QRService{
		equipmentService: equipmentService,
		employeeService:  employeeService,
		logger:           logger,
	}
}

func (s *QRService) Resolve(ctx context.Context, payload string) (*dto.QRResolveDTO, error) {
	payload = strings.TrimSpace(payload)
	switch {
	case strings.HasPrefix(payload, constants.QRPrefixEquipment):
		view, err := s.equipmentService.Find(ctx, strings.TrimPrefix(payload, constants.QRPrefixEquipment))
		if err != nil {
			return nil, err
		}
		return &dto.QRResolveDTO{Kind: qrKindEquipment, Equipment: view}, nil
	case strings.HasPrefix(payload, constants.QRPrefixEmployee):
		view, err := s.employeeService.Find(ctx, strings.TrimPrefix(payload, constants.QRPrefixEmployee))
		if err != nil {
			return nil, err
		}
		return &dto.QRResolveDTO{Kind: qrKindEmployee, Employee: view}, nil
	default:
		return nil, apperrors.ErrNotFound
	}
}

// EquipmentPayload returns the string encoded onto an equipment label.
func (s *QRService) EquipmentPayload(ctx context.Context, inventoryNumber string) (*dto.QRPayloadDTO, error) {
	equipment, err := s.equipmentService.Find(ctx, inventoryNumber)
	if err != nil {
		return nil, err
	}
	return &dto.QRPayloadDTO{Payload: constants.QRPrefixEquipment + equipment.Equipment.InventoryNumber}, nil
}

// EmployeePayload returns the string encoded onto a badge.
func (s *QRService) EmployeePayload(ctx context.Context, employeeID string) (*dto.QRPayloadDTO, error) {
	employee, err := s.employeeService.Find(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return &dto.QRPayloadDTO{Payload: constants.QRPrefixEmployee + employee.Employee.EmployeeID}, nil
}
