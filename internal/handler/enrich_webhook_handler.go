package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/intake-api/internal/dto"
	"github.com/octobees/intake-api/internal/repository"
	"github.com/octobees/intake-api/internal/service"
)

// EnrichWebhookHandler receives enrichment callbacks from the automation
// platform. Authentication happens in the SharedSecret middleware, before
// the body is ever parsed.
type EnrichWebhookHandler struct {
	intake *service.IntakeService
}

// NewEnrichWebhookHandler wires a new EnrichWebhookHandler instance.
func NewEnrichWebhookHandler(intake *service.IntakeService) *EnrichWebhookHandler {
	return &EnrichWebhookHandler{intake: intake}
}

// Receive handles POST /api/webhook/enrich requests.
func (h *EnrichWebhookHandler) Receive(c echo.Context) error {
	var req dto.EnrichmentCallbackRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	submission, err := h.intake.ApplyEnrichment(c.Request().Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return Error(c, http.StatusBadRequest, verr.Error())
		case errors.Is(err, repository.ErrSubmissionNotFound):
			return Error(c, http.StatusNotFound, "submission not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to store enrichment")
		}
	}

	return Success(c, http.StatusOK, "enrichment stored", map[string]any{"submission": submission})
}
