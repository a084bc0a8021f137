// Package handler exposes the services over HTTP with echo. Every failure is
// rendered as {"error": message} with the status of its apperror kind.
package handler

import (
	"strconv"

	"shop-service/internal/apperror"
	"shop-service/internal/middleware"
	"shop-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func respondError(c echo.Context, err error) error {
	status := apperror.HTTPStatus(err)
	log := logger.FromContext(c)
	if apperror.KindOf(err) == apperror.KindInternal {
		log.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": apperror.Message(err)})
}

// bind decodes the request into req and runs the registered validator
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.Validation("invalid request data")
	}
	return c.Validate(req)
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("%s must be a positive integer", name)
	}
	return uint(id), nil
}

func currentUserID(c echo.Context) (string, error) {
	id, ok := middleware.UserIDFromContext(c)
	if !ok {
		return "", apperror.Unauthorized("missing authorization token")
	}
	return id, nil
}
