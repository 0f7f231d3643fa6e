// Package cvs exposes stored CVs over HTTP.
package cvs

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvai-core/internal/models"
	"cvai-core/internal/shared/server/respond"
	"cvai-core/internal/store"
)

// Store is the CV persistence the handler needs.
type Store interface {
	ListCVs(ctx context.Context) ([]models.CV, error)
	GetCV(ctx context.Context, id string) (models.CV, error)
	SaveCV(ctx context.Context, cv models.CV) (models.CV, error)
	DeleteCV(ctx context.Context, id string) error
}

type Handler struct {
	Store Store
}

func NewHandler(st Store) *Handler {
	return &Handler{Store: st}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cvs", h.list)
	rg.POST("/cvs", h.create)
	rg.GET("/cvs/:id", h.get)
	rg.PUT("/cvs/:id", h.update)
	rg.DELETE("/cvs/:id", h.delete)
}

type cvRequest struct {
	Name     string           `json:"name"`
	Sections []models.Section `json:"sections"`
}

func (h *Handler) list(c *gin.Context) {
	cvs, err := h.Store.ListCVs(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list CVs")
		return
	}
	respond.OK(c, cvs)
}

func (h *Handler) get(c *gin.Context) {
	cv, err := h.Store.GetCV(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch CV")
		return
	}
	respond.OK(c, cv)
}

func (h *Handler) create(c *gin.Context) {
	var body cvRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	cv, err := h.Store.SaveCV(c.Request.Context(), models.CV{Name: body.Name, Sections: body.Sections})
	if err != nil {
		writeError(c, err, "failed to save CV")
		return
	}
	c.Set("cvId", cv.ID)
	respond.Created(c, cv)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.Store.GetCV(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to fetch CV")
		return
	}
	var body cvRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	cv, err := h.Store.SaveCV(c.Request.Context(), models.CV{ID: id, Name: body.Name, Sections: body.Sections})
	if err != nil {
		writeError(c, err, "failed to save CV")
		return
	}
	c.Set("cvId", cv.ID)
	respond.OK(c, cv)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Store.DeleteCV(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "failed to delete CV")
		return
	}
	respond.NoContent(c)
}

func writeError(c *gin.Context, err error, fallback string) {
	var fe *models.FieldError
	switch {
	case errors.As(err, &fe):
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", fe.Error(), []map[string]string{
			{"field": fe.Field, "issue": fe.Rule},
		})
	case errors.Is(err, store.ErrInvalidRecord):
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "NOT_FOUND", "CV not found", nil)
	case errors.Is(err, store.ErrStorageUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "STORAGE_ERROR", "storage unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback, nil)
	}
}
