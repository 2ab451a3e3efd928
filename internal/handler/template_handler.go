package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/announcement-portal-api/internal/service"
	"github.com/noah-isme/announcement-portal-api/pkg/response"
)

type templateService interface {
	Render() ([]byte, error)
}

type reportDownloader interface {
	Open(token string) (path, name string, err error)
}

// TemplateHandler serves the downloadable bulk template and rendered
// row-error reports.
type TemplateHandler struct {
	templates templateService
	reports   reportDownloader
}

// NewTemplateHandler builds a new handler.
func NewTemplateHandler(templates templateService, reports reportDownloader) *TemplateHandler {
	return &TemplateHandler{templates: templates, reports: reports}
}

// Template godoc
// @Summary Download the bulk-import template
// @Tags Wizard
// @Produce text/csv
// @Success 200
// @Router /wizard/template [get]
func (h *TemplateHandler) Template(c *gin.Context) {
	payload, err := h.templates.Render()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.TemplateFileName))
	c.Data(http.StatusOK, "text/csv", payload)
}

// Download godoc
// @Summary Download a rendered report by signed token
// @Tags Wizard
// @Param token path string true "Signed download token"
// @Success 200
// @Router /downloads/{token} [get]
func (h *TemplateHandler) Download(c *gin.Context) {
	path, name, err := h.reports.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, name)
}
