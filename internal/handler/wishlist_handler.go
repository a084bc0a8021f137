package handler

import (
	"net/http"

	"shop-service/internal/service"

	"github.com/labstack/echo/v4"
)

type WishlistHandler struct {
	wishlists *service.WishlistService
}

func NewWishlistHandler(wishlists *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

func (h *WishlistHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	wishlist, err := h.wishlists.Get(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, wishlist)
}

func (h *WishlistHandler) Add(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	productID, err := paramID(c, "productId")
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.wishlists.Add(c.Request().Context(), userID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *WishlistHandler) Remove(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	productID, err := paramID(c, "productId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.wishlists.Remove(c.Request().Context(), userID, productID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WishlistHandler) Clear(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.wishlists.Clear(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
