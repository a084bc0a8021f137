package handler

import (
	"net/http"
	"strconv"

	"shop-service/internal/apperror"
	"shop-service/internal/dto"
	"shop-service/internal/model"
	"shop-service/internal/service"

	"github.com/labstack/echo/v4"
)

// CatalogHandler serves categories, sub categories and sizes
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req dto.CategoryRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	category, err := h.catalog.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CategoryRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	category, err := h.catalog.UpdateCategory(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSubCategories accepts an optional categoryId filter
func (h *CatalogHandler) ListSubCategories(c echo.Context) error {
	var categoryID *uint
	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return respondError(c, apperror.Validation("categoryId must be a positive integer"))
		}
		v := uint(id)
		categoryID = &v
	}
	subCategories, err := h.catalog.ListSubCategories(c.Request().Context(), categoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, subCategories)
}

func (h *CatalogHandler) CreateSubCategory(c echo.Context) error {
	var req dto.SubCategoryRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	sc, err := h.catalog.CreateSubCategory(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, sc)
}

func (h *CatalogHandler) UpdateSubCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.SubCategoryRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	sc, err := h.catalog.UpdateSubCategory(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sc)
}

func (h *CatalogHandler) DeleteSubCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalog.DeleteSubCategory(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListSizes(c echo.Context) error {
	sizes, err := h.catalog.ListSizes(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sizes)
}

func (h *CatalogHandler) CreateSize(c echo.Context) error {
	var req dto.SizeRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	size, err := h.catalog.CreateSize(c.Request().Context(), model.SizeKind(c.Param("kind")), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, size)
}

func (h *CatalogHandler) DeleteSize(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.catalog.DeleteSize(c.Request().Context(), model.SizeKind(c.Param("kind")), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
