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

type InventoryCheckController struct {
	checkService *services.InventoryCheckService
	logger       *zap.Logger
}

func NewInventoryCheckController(checkService *services.InventoryCheckService, logger *zap.Logger) *InventoryCheckController {
	return &InventoryCheckController{checkService: checkService, logger: logger}
}

func (c *InventoryCheckController) RecordCheck(ctx echo.Context) error {
	var payload dto.CreateInventoryCheckDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "validation failed", err, nil))
	}

	check, err := c.checkService.Record(ctx.Request().Context(), payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "check recorded", check)
}

func (c *InventoryCheckController) CheckHistory(ctx echo.Context) error {
	limit, _ := strconv.ParseUint(ctx.QueryParam("limit"), 10, 64)

	checks, err := c.checkService.History(ctx.Request().Context(), ctx.Param("inventory_number"), limit)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "check history", checks, uint64(len(checks)), 1, len(checks))
}
