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

type MaintenanceController struct {
	maintenanceService *services.MaintenanceService
	logger             *zap.Logger
}

func NewMaintenanceController(maintenanceService *services.MaintenanceService, logger *zap.Logger) *MaintenanceController {
	return &MaintenanceController{maintenanceService: maintenanceService, logger: logger}
}

func (c *MaintenanceController) StartMaintenance(ctx echo.Context) error {
	var payload dto.StartMaintenanceDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "validation failed", err, nil))
	}

	record, err := c.maintenanceService.Start(ctx.Request().Context(), payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "maintenance started", record)
}

func (c *MaintenanceController) FinishMaintenance(ctx echo.Context) error {
	var payload dto.FinishMaintenanceDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "validation failed", err, nil))
	}

	record, err := c.maintenanceService.Finish(ctx.Request().Context(), payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "maintenance finished", record)
}

func (c *MaintenanceController) MaintenanceHistory(ctx echo.Context) error {
	limit, _ := strconv.ParseUint(ctx.QueryParam("limit"), 10, 64)

	records, totalCost, err := c.maintenanceService.History(ctx.Request().Context(), ctx.Param("inventory_number"), limit)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "maintenance history", map[string]interface{}{
		"records":    records,
		"total_cost": totalCost,
	})
}
