package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
	"inventory-system/pkg/middleware"
)

func RegisterAssignmentRoutes(e *echo.Echo, ctrl *controllers.AssignmentController, auth *middleware.AuthMiddleware) {
	g := e.Group("/assignments", auth.Auth)
	g.POST("/assign", ctrl.AssignEquipment)
	g.POST("/return", ctrl.ReturnEquipment)
	g.GET("/holder/:inventory_number", ctrl.CurrentHolder)
	g.GET("/overdue", ctrl.OverdueAssignments)
	g.GET("/history/:employee_id", ctrl.EmployeeHistory)
}
