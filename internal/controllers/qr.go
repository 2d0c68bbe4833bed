package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	"inventory-system/pkg/api"
	apperrors "inventory-system/pkg/errors"
)

type QRController struct {
	qrService *services.QRService
	logger    *zap.Logger
}

func NewQRController(qrService *services.QRService, logger *zap.Logger) *QRController {
	return &QRController{qrService: qrService, logger: logger}
}

func (c *QRController) ResolvePayload(ctx echo.Context) error {
	var payload struct {
		Payload string `json:"payload"`
	}
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}

	resolved, err := c.qrService.Resolve(ctx.Request().Context(), payload.Payload)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "payload resolved", resolved)
}

func (c *QRController) EquipmentPayload(ctx echo.Context) error {
	payload, err := c.qrService.EquipmentPayload(ctx.Request().Context(), ctx.Param("inventory_number"))
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "equipment payload", payload)
}

func (c *QRController) EmployeePayload(ctx echo.Context) error {
	payload, err := c.qrService.EmployeePayload(ctx.Request().Context(), ctx.Param("employee_id"))
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "employee payload", payload)
}
