package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
	"inventory-system/pkg/middleware"
)

func RegisterEquipmentRoutes(e *echo.Echo, ctrl *controllers.EquipmentController, auth *middleware.AuthMiddleware) {
	g := e.Group("/equipment", auth.Auth)
	g.GET("", ctrl.ListEquipment)
	g.GET("/:inventory_number", ctrl.FindEquipment)
	g.POST("", ctrl.CreateEquipment)
	g.PUT("/:inventory_number", ctrl.UpdateEquipment)
	g.POST("/:inventory_number/retire", ctrl.RetireEquipment)
}
