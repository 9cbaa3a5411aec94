package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/intake-api/internal/dto"
	"github.com/octobees/intake-api/internal/mailer"
	"github.com/octobees/intake-api/internal/repository"
	"github.com/octobees/intake-api/internal/service"
)

// EmailsHandler exposes the generated-draft listing and dispatch endpoints.
type EmailsHandler struct {
	dispatch *service.DispatchService
}

// NewEmailsHandler wires a new EmailsHandler instance.
func NewEmailsHandler(dispatch *service.DispatchService) *EmailsHandler {
	return &EmailsHandler{dispatch: dispatch}
}

// ListGenerated handles GET /api/emails/generated requests.
func (h *EmailsHandler) ListGenerated(c echo.Context) error {
	drafts, err := h.dispatch.ListDrafts(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list generated emails")
	}
	return Success(c, http.StatusOK, "generated emails retrieved", drafts)
}

// Send handles POST /api/emails/send requests.
func (h *EmailsHandler) Send(c echo.Context) error {
	var req dto.SendEmailRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	recipient, err := h.dispatch.Send(c.Request().Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return Error(c, http.StatusBadRequest, verr.Error())
		case errors.Is(err, repository.ErrEmailDraftNotFound):
			return Error(c, http.StatusNotFound, "email draft not found")
		case errors.Is(err, mailer.ErrNotConfigured):
			return Error(c, http.StatusInternalServerError, "email provider is not configured")
		case errors.Is(err, mailer.ErrSendRejected):
			return Error(c, http.StatusInternalServerError, err.Error())
		default:
			return Error(c, http.StatusInternalServerError, "failed to send email")
		}
	}

	return Success(c, http.StatusOK, "email sent", map[string]any{"recipient": recipient})
}
