package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
	"inventory-system/pkg/middleware"
)

func RegisterImportRoutes(e *echo.Echo, ctrl *controllers.ImportController, auth *middleware.AuthMiddleware) {
	g := e.Group("/import", auth.Auth)
	g.POST("", ctrl.ImportBatch)
}
