package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
	"inventory-system/pkg/middleware"
)

func RegisterQRRoutes(e *echo.Echo, ctrl *controllers.QRController, auth *middleware.AuthMiddleware) {
	g := e.Group("/qr", auth.Auth)
	g.POST("/resolve", ctrl.ResolvePayload)
	g.GET("/equipment/:inventory_number", ctrl.EquipmentPayload)
	g.GET("/employee/:employee_id", ctrl.EmployeePayload)
}
