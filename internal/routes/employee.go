package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
	"inventory-system/pkg/middleware"
)

func RegisterEmployeeRoutes(e *echo.Echo, ctrl *controllers.EmployeeController, auth *middleware.AuthMiddleware) {
	g := e.Group("/employees", auth.Auth)
	g.GET("", ctrl.ListEmployees)
	g.GET("/:employee_id", ctrl.FindEmployee)
	g.POST("", ctrl.CreateEmployee)
	g.PUT("/:employee_id", ctrl.UpdateEmployee)
}
