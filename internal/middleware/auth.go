package middleware

import (
	"net/http"
	"slices"
	"strings"

	"shop-service/internal/model"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	userIDKey = "user_id"
	emailKey  = "email"
	roleKey   = "user_role"
)

// AuthMiddleware validates the bearer access token and stores the user
// identity in the context
func AuthMiddleware(j *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			// Extract the token from the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Debug("Missing Authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			// Check if the header format is valid
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Validate the token
			claims, err := j.ValidateAccessToken(parts[1])
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Store the identity in the context for later use
			c.Set(userIDKey, claims.UserID())
			c.Set(emailKey, claims.Email)
			c.Set(roleKey, model.Role(claims.Role))
			logger.WithLogger(c, log.With(zap.String("user_id", claims.UserID())))

			return next(c)
		}
	}
}

// RequireRole rejects authenticated users whose role is not listed. It must
// run after AuthMiddleware.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// The role is set by AuthMiddleware
			role, ok := RoleFromContext(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}
			if !slices.Contains(roles, role) {
				logger.FromContext(c).Warn("Role not allowed", zap.String("role", string(role)), zap.String("path", c.Path()))
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden resource"})
			}
			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated user id
func UserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(userIDKey).(string)
	return id, ok && id != ""
}

func RoleFromContext(c echo.Context) (model.Role, bool) {
	role, ok := c.Get(roleKey).(model.Role)
	return role, ok
}
