package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/announcement-portal-api/internal/middleware"
	"github.com/noah-isme/announcement-portal-api/internal/models"
	"github.com/noah-isme/announcement-portal-api/pkg/response"
)

type referenceService interface {
	Types(ctx context.Context) ([]models.ReferenceEntry, bool, error)
	Categories(ctx context.Context) ([]models.ReferenceEntry, bool, error)
}

// ReferenceHandler exposes the wizard's lookup sets.
type ReferenceHandler struct {
	service referenceService
}

// NewReferenceHandler builds a new handler.
func NewReferenceHandler(service referenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// Types godoc
// @Summary List announcement types
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference/announcement-types [get]
func (h *ReferenceHandler) Types(c *gin.Context) {
	entries, cached, err := h.service.Types(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, entries, nil, middleware.ExtractMeta(c))
}

// Categories godoc
// @Summary List categories
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference/categories [get]
func (h *ReferenceHandler) Categories(c *gin.Context) {
	entries, cached, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, entries, nil, middleware.ExtractMeta(c))
}
