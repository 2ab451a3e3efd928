package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/announcement-portal-api/internal/dto"
	"github.com/noah-isme/announcement-portal-api/internal/models"
	appErrors "github.com/noah-isme/announcement-portal-api/pkg/errors"
	"github.com/noah-isme/announcement-portal-api/pkg/response"
)

type wizardService interface {
	StartSession(ctx context.Context, req dto.StartSessionRequest) (*dto.SessionView, error)
	GetSession(id string) (*dto.SessionView, error)
	SelectFlow(id string, req dto.SelectFlowRequest) (*dto.SessionView, error)
	UpdateField(id string, req dto.FieldInputRequest) (*dto.SessionView, error)
	AdvanceStep(id string) (*dto.SessionView, error)
	UploadSheet(id string, r io.Reader) (*dto.SessionView, error)
	Reset(id string) (*dto.SessionView, error)
	Cancel(id string) error
	Submit(ctx context.Context, id string, claims *models.JWTClaims) (*dto.SubmitResult, error)
	RowErrors(id string) ([]models.RowError, error)
}

type errorReportService interface {
	Request(sessionID string, rowErrors []models.RowError, format string) (*dto.ErrorReportView, error)
	Get(jobID string) (*dto.ErrorReportView, error)
}

// WizardHandler exposes the authoring workflow endpoints.
type WizardHandler struct {
	service wizardService
	reports errorReportService
}

// NewWizardHandler builds a new handler.
func NewWizardHandler(service wizardService, reports errorReportService) *WizardHandler {
	return &WizardHandler{service: service, reports: reports}
}

// Start godoc
// @Summary Open a wizard session
// @Tags Wizard
// @Accept json
// @Produce json
// @Param payload body dto.StartSessionRequest true "Session request"
// @Success 201 {object} response.Envelope
// @Router /wizard/sessions [post]
func (h *WizardHandler) Start(c *gin.Context) {
	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	view, err := h.service.StartSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Get godoc
// @Summary Fetch session state
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id} [get]
func (h *WizardHandler) Get(c *gin.Context) {
	view, err := h.service.GetSession(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// SelectFlow godoc
// @Summary Choose the authoring flow
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.SelectFlowRequest true "Flow selection"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/flow [post]
func (h *WizardHandler) SelectFlow(c *gin.Context) {
	var req dto.SelectFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid flow payload"))
		return
	}
	view, err := h.service.SelectFlow(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// UpdateField godoc
// @Summary Mutate one draft field
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.FieldInputRequest true "Field input"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/fields [patch]
func (h *WizardHandler) UpdateField(c *gin.Context) {
	var req dto.FieldInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid field payload"))
		return
	}
	view, err := h.service.UpdateField(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Advance godoc
// @Summary Advance to the next step
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/advance [post]
func (h *WizardHandler) Advance(c *gin.Context) {
	view, err := h.service.AdvanceStep(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Upload godoc
// @Summary Upload the bulk sheet
// @Tags Wizard
// @Accept mpfd
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "CSV sheet"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/upload [post]
func (h *WizardHandler) Upload(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "a sheet file is required"))
		return
	}
	defer file.Close() //nolint:errcheck
	view, err := h.service.UploadSheet(c.Param("id"), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Reset godoc
// @Summary Reset the draft
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/reset [post]
func (h *WizardHandler) Reset(c *gin.Context) {
	view, err := h.service.Reset(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Cancel godoc
// @Summary Discard the session
// @Tags Wizard
// @Param id path string true "Session ID"
// @Success 204
// @Router /wizard/sessions/{id} [delete]
func (h *WizardHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Submit godoc
// @Summary Submit the session
// @Tags Wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	result, err := h.service.Submit(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if !result.Accepted {
		// Blocked batches stay interactive: the caller corrects and retries.
		status = http.StatusUnprocessableEntity
	}
	response.JSON(c, status, result, nil)
}

// RequestErrorReport godoc
// @Summary Export the last bulk row errors
// @Tags Wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.ErrorReportRequest true "Report format"
// @Success 202 {object} response.Envelope
// @Router /wizard/sessions/{id}/error-report [post]
func (h *WizardHandler) RequestErrorReport(c *gin.Context) {
	var req dto.ErrorReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}
	rowErrors, err := h.service.RowErrors(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.reports.Request(c.Param("id"), rowErrors, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, view, nil)
}

// GetErrorReport godoc
// @Summary Fetch an error report's status
// @Tags Wizard
// @Produce json
// @Param jobId path string true "Report job ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/error-reports/{jobId} [get]
func (h *WizardHandler) GetErrorReport(c *gin.Context) {
	view, err := h.reports.Get(c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
