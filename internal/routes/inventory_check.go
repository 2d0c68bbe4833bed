package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
	"inventory-system/pkg/middleware"
)

func RegisterInventoryCheckRoutes(e *echo.Echo, ctrl *controllers.InventoryCheckController, auth *middleware.AuthMiddleware) {
	g := e.Group("/checks", auth.Auth)
	g.POST("", ctrl.RecordCheck)
	g.GET("/:inventory_number", ctrl.CheckHistory)
}
