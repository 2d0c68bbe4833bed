package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/api"
	apperrors "inventory-system/pkg/errors"
)

type AssignmentController struct {
	assignmentService *services.AssignmentService
	logger            *zap.Logger
}

func NewAssignmentController(assignmentService *services.AssignmentService, logger *zap.Logger) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService, logger: logger}
}

func (c *AssignmentController) AssignEquipment(ctx echo.Context) error {
	var payload dto.AssignEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "validation failed", err, nil))
	}

	assignment, err := c.assignmentService.Assign(ctx.Request().Context(), payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "equipment assigned", assignment)
}

func (c *AssignmentController) ReturnEquipment(ctx echo.Context) error {
	var payload dto.ReturnEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "validation failed", err, nil))
	}

	closed, err := c.assignmentService.Return(ctx.Request().Context(), payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "equipment returned", closed)
}

func (c *AssignmentController) CurrentHolder(ctx echo.Context) error {
	holder, err := c.assignmentService.CurrentHolder(ctx.Request().Context(), ctx.Param("inventory_number"))
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	if holder == nil {
		return api.SuccessOne[any](ctx, http.StatusOK, "equipment is not assigned", nil)
	}
	return api.SuccessOne(ctx, http.StatusOK, "current holder", holder)
}

func (c *AssignmentController) OverdueAssignments(ctx echo.Context) error {
	overdue, err := c.assignmentService.Overdue(ctx.Request().Context())
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "overdue assignments", overdue, uint64(len(overdue)), 1, len(overdue))
}

func (c *AssignmentController) EmployeeHistory(ctx echo.Context) error {
	limit, _ := strconv.ParseUint(ctx.QueryParam("limit"), 10, 64)

	history, err := c.assignmentService.HistoryByEmployee(ctx.Request().Context(), ctx.Param("employee_id"), limit)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "assignment history", history, uint64(len(history)), 1, len(history))
}
