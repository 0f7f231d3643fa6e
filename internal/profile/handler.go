// Package profile exposes the singleton user profile over HTTP.
package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvai-core/internal/models"
	"cvai-core/internal/shared/server/respond"
	"cvai-core/internal/store"
)

type Store interface {
	GetUserProfile(ctx context.Context) (models.UserProfile, error)
	CreateUserProfile(ctx context.Context, name, email, phone string) (models.UserProfile, error)
	SaveUserProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error)
	DeleteUserProfile(ctx context.Context) error
}

type Handler struct {
	Store Store
}

func NewHandler(st Store) *Handler {
	return &Handler{Store: st}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.get)
	rg.POST("/profile", h.create)
	rg.PUT("/profile", h.save)
	rg.DELETE("/profile", h.delete)
}

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Store.GetUserProfile(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load profile")
		return
	}
	respond.OK(c, p)
}

func (h *Handler) create(c *gin.Context) {
	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	p, err := h.Store.CreateUserProfile(c.Request.Context(), body.Name, body.Email, body.Phone)
	if err != nil {
		writeError(c, err, "failed to create profile")
		return
	}
	respond.Created(c, p)
}

func (h *Handler) save(c *gin.Context) {
	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	p, err := h.Store.SaveUserProfile(c.Request.Context(), models.UserProfile{
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
	})
	if err != nil {
		writeError(c, err, "failed to save profile")
		return
	}
	respond.OK(c, p)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Store.DeleteUserProfile(c.Request.Context()); err != nil {
		writeError(c, err, "failed to delete profile")
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
	case errors.Is(err, store.ErrInvalidProfile):
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "NOT_FOUND", "profile not found", nil)
	case errors.Is(err, store.ErrProfileExists):
		respond.Error(c, http.StatusConflict, "PROFILE_EXISTS", "profile already exists", nil)
	case errors.Is(err, store.ErrStorageUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "STORAGE_ERROR", "storage unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback, nil)
	}
}
