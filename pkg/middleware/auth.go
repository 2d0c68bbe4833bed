package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/pkg/api"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtService service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService, logger: logger}
}

// Auth validates the bearer token and stores the actor in the request
// context, where the audit trail picks it up.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return api.ErrorResponse(c, apperrors.NewHttpError(
				http.StatusUnauthorized, "missing authorization header", nil, nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return api.ErrorResponse(c, apperrors.NewHttpError(
				http.StatusUnauthorized, "invalid authorization header", nil, nil))
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed", zap.Error(err))
			return api.ErrorResponse(c, apperrors.NewHttpError(
				http.StatusUnauthorized, "invalid or expired token", err, nil))
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.ActorKey, claims.Actor)
		ctx = context.WithValue(ctx, contextkeys.ActorIDKey, claims.ActorID)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
