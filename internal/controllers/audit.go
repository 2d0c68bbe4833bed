package controllers

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	"inventory-system/pkg/api"
)

type AuditController struct {
	auditService *services.AuditService
	logger       *zap.Logger
}

func NewAuditController(auditService *services.AuditService, logger *zap.Logger) *AuditController {
	return &AuditController{auditService: auditService, logger: logger}
}

func (c *AuditController) EntityHistory(ctx echo.Context) error {
	limit, _ := strconv.ParseUint(ctx.QueryParam("limit"), 10, 64)

	entries, err := c.auditService.EntityHistory(
		ctx.Request().Context(),
		ctx.Param("entity_type"),
		ctx.Param("entity_id"),
		limit,
	)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "audit history", entries, uint64(len(entries)), 1, len(entries))
}
