package handler

import (
	"net/http"

	"shop-service/internal/dto"
	"shop-service/internal/model"
	"shop-service/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

func NewUserHandler(users *service.UserService, auth *service.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

func (h *UserHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.auth.Me(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Find(c echo.Context) error {
	user, err := h.users.Find(c.Request().Context(), c.Param("idOrEmail"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req dto.UpdateRoleRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.users.UpdateRole(c.Request().Context(), c.Param("id"), model.Role(req.Role))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
