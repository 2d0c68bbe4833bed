package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
	"inventory-system/pkg/middleware"
)

func RegisterMaintenanceRoutes(e *echo.Echo, ctrl *controllers.MaintenanceController, auth *middleware.AuthMiddleware) {
	g := e.Group("/maintenance", auth.Auth)
	g.POST("/start", ctrl.StartMaintenance)
	g.POST("/finish", ctrl.FinishMaintenance)
	g.GET("/history/:inventory_number", ctrl.MaintenanceHistory)
}
