package blobstore

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BlobHandler provides Echo HTTP handlers for attachment operations.
type BlobHandler struct {
	store BlobStore
}

// NewBlobHandler creates a new BlobHandler.
func NewBlobHandler(store BlobStore) *BlobHandler {
	return &BlobHandler{store: store}
}

// RegisterRoutes mounts attachment routes on the supplied Echo group.
func (h *BlobHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/files/upload", h.handleUpload)
	g.GET("/files", h.handleListByOwner)
	g.GET("/files/:id", h.handleGetMetadata)
	g.GET("/files/:id/download", h.handleDownload)
	g.DELETE("/files/:id", h.handleDelete)
}

func (h *BlobHandler) handleUpload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Arquivo é obrigatório"})
	}

	ownerID, err := uuid.Parse(c.FormValue("ownerId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ownerId inválido"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open uploaded file"})
	}
	defer src.Close()

	meta := BlobMetadata{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		OwnerType:   c.FormValue("ownerType"),
		OwnerID:     ownerID,
	}

	result, err := h.store.Upload(c.Request().Context(), meta, src)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "Arquivo excede o tamanho máximo de 10MB"})
		case errors.Is(err, ErrMissingFileName), errors.Is(err, ErrInvalidOwner):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrInvalidContentType):
			return c.JSON(http.StatusUnsupportedMediaType, map[string]string{"error": "Tipo de arquivo não permitido"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *BlobHandler) handleDownload(c echo.Context) error {
	rc, meta, err := h.store.Download(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Arquivo não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	defer rc.Close()

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, meta.FileName))
	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

func (h *BlobHandler) handleGetMetadata(c echo.Context) error {
	meta, err := h.store.GetMetadata(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Arquivo não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, meta)
}

func (h *BlobHandler) handleDelete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Arquivo não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BlobHandler) handleListByOwner(c echo.Context) error {
	ownerType := c.QueryParam("ownerType")
	if ownerType != OwnerDiagnosis && ownerType != OwnerVisit {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ownerType deve ser diagnosis ou visit"})
	}
	ownerID, err := uuid.Parse(c.QueryParam("ownerId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ownerId inválido"})
	}

	items, err := h.store.ListByOwner(c.Request().Context(), ownerType, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if items == nil {
		items = []*BlobMetadata{}
	}
	return c.JSON(http.StatusOK, items)
}
