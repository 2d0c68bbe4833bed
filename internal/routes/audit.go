package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
	"inventory-system/pkg/middleware"
)

func RegisterAuditRoutes(e *echo.Echo, ctrl *controllers.AuditController, auth *middleware.AuthMiddleware) {
	g := e.Group("/audit", auth.Auth)
	g.GET("/:entity_type/:entity_id", ctrl.EntityHistory)
}
