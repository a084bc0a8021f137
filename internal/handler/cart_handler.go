package handler

import (
	"net/http"

	"shop-service/internal/dto"
	"shop-service/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.carts.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) Add(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	productID, err := paramID(c, "productId")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CartItemRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.carts.AddOrIncrement(c.Request().Context(), userID, productID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	lineID, err := paramID(c, "cartProductId")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CartItemRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.carts.Update(c.Request().Context(), userID, lineID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) Remove(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	lineID, err := paramID(c, "cartProductId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.carts.Remove(c.Request().Context(), userID, lineID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Clear(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.carts.Clear(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Summary(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.carts.Summary(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *CartHandler) Total(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.carts.Summary(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"totalPrice": summary.TotalPrice})
}

func (h *CartHandler) Quantity(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.carts.Summary(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"totalQuantity": summary.TotalQuantity})
}
