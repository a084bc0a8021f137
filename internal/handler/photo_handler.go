package handler

import (
	"net/http"

	"shop-service/internal/apperror"
	"shop-service/internal/service"

	"github.com/labstack/echo/v4"
)

// PhotoHandler serves the multipart product photo and upload routes
type PhotoHandler struct {
	photos   *service.PhotoService
	maxFiles int
}

func NewPhotoHandler(photos *service.PhotoService, maxFiles int) *PhotoHandler {
	return &PhotoHandler{photos: photos, maxFiles: maxFiles}
}

// Upload handles POST /upload/photo with a single "file" field
func (h *PhotoHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, apperror.Validation("file is required"))
	}
	uploaded, err := h.photos.Upload(c.Request().Context(), fh)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, uploaded)
}

func (h *PhotoHandler) Append(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, apperror.Validation("multipart form with files is required"))
	}
	files := form.File["files"]
	if h.maxFiles > 0 && len(files) > h.maxFiles {
		return respondError(c, apperror.Validation("at most %d files can be uploaded at once", h.maxFiles))
	}
	product, err := h.photos.Append(c.Request().Context(), id, files)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *PhotoHandler) Replace(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	photoID, err := paramID(c, "photoId")
	if err != nil {
		return respondError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, apperror.Validation("file is required"))
	}
	product, err := h.photos.Replace(c.Request().Context(), id, photoID, fh)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *PhotoHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	photoID, err := paramID(c, "photoId")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.photos.Delete(c.Request().Context(), id, photoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *PhotoHandler) DeleteAll(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.photos.DeleteAll(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}
