package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
	"inventory-system/pkg/middleware"
)

func RegisterDashboardRoutes(e *echo.Echo, ctrl *controllers.DashboardController, auth *middleware.AuthMiddleware) {
	g := e.Group("/dashboard", auth.Auth)
	g.GET("", ctrl.GetDashboardStats)
}
