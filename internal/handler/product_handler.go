package handler

import (
	"net/http"
	"strconv"
	"strings"

	"shop-service/internal/apperror"
	"shop-service/internal/dto"
	"shop-service/internal/service"
	"shop-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /product/list. subCategoryIds may be a comma list,
// repeated, or both.
func (h *ProductHandler) List(c echo.Context) error {
	var q dto.ProductListQuery
	if err := bind(c, &q); err != nil {
		return respondError(c, err)
	}
	ids, err := parseIDList(c.QueryParams()["subCategoryIds"])
	if err != nil {
		return respondError(c, err)
	}
	q.SubCategoryIDs = ids

	page, err := h.products.List(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func parseIDList(values []string) ([]uint, error) {
	var ids []uint
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				return nil, apperror.Validation("subCategoryIds must be a list of positive integers")
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// GetByIDs resolves a guest cart kept on the client; the body is an id array
func (h *ProductHandler) GetByIDs(c echo.Context) error {
	var ids dto.IDsRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &ids); err != nil {
		return respondError(c, apperror.Validation("body must be an array of product ids"))
	}
	products, err := h.products.GetByIDs(c.Request().Context(), ids)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req dto.CreateProductRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.products.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	logger.FromContext(c).Info("Product created successfully", zap.Uint("product_id", product.ID), zap.String("sku", product.SKU))
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdateProductRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.products.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) ListConfigurations(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	configs, err := h.products.ListConfigurations(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, configs)
}

func (h *ProductHandler) CreateConfiguration(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.ConfigurationRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	config, err := h.products.CreateConfiguration(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, config)
}

func (h *ProductHandler) UpdateConfiguration(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	configID, err := paramID(c, "configurationId")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.ConfigurationRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	config, err := h.products.UpdateConfiguration(c.Request().Context(), id, configID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, config)
}

func (h *ProductHandler) DeleteConfiguration(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	configID, err := paramID(c, "configurationId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.products.DeleteConfiguration(c.Request().Context(), id, configID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) AddInfo(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.InfoRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	info, err := h.products.AddInfo(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, info)
}

func (h *ProductHandler) DeleteInfo(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	infoID, err := paramID(c, "infoId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.products.DeleteInfo(c.Request().Context(), id, infoID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
