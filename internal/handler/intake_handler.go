package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/intake-api/internal/dto"
	"github.com/octobees/intake-api/internal/repository"
	"github.com/octobees/intake-api/internal/service"
	"github.com/octobees/intake-api/internal/webhook"
)

// IntakeHandler exposes the public submission form and the admin review
// endpoints over it.
type IntakeHandler struct {
	intake *service.IntakeService
}

// NewIntakeHandler wires a new IntakeHandler instance.
func NewIntakeHandler(intake *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intake: intake}
}

// Submit handles POST /api/submit requests.
func (h *IntakeHandler) Submit(c echo.Context) error {
	var req dto.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	submission, err := h.intake.Submit(c.Request().Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return Error(c, http.StatusBadRequest, verr.Error())
		case errors.Is(err, webhook.ErrNotConfigured):
			return Error(c, http.StatusInternalServerError, "enrichment webhook is not configured")
		case errors.Is(err, webhook.ErrUnavailable):
			// The record is persisted; the enrichment hop was not reached.
			return Error(c, http.StatusBadGateway, "enrichment service is unreachable; submission was recorded but not forwarded")
		default:
			return Error(c, http.StatusInternalServerError, "failed to record submission")
		}
	}

	return Success(c, http.StatusCreated, "submission received", map[string]any{"submission": submission})
}

// List handles GET /api/submissions requests.
func (h *IntakeHandler) List(c echo.Context) error {
	submissions, err := h.intake.ListSubmissions(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list submissions")
	}
	return Success(c, http.StatusOK, "submissions retrieved", submissions)
}

// UpdateStatus handles PATCH /api/submissions/:id/status requests.
func (h *IntakeHandler) UpdateStatus(c echo.Context) error {
	var req dto.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	submission, err := h.intake.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return Error(c, http.StatusBadRequest, verr.Error())
		case errors.Is(err, repository.ErrSubmissionNotFound):
			return Error(c, http.StatusNotFound, "submission not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to update submission status")
		}
	}

	return Success(c, http.StatusOK, "status updated", map[string]any{"submission": submission})
}
