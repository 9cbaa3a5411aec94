package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/intake-api/internal/dto"
	"github.com/octobees/intake-api/internal/repository"
	"github.com/octobees/intake-api/internal/service"
)

// AuthHandler exposes authentication and operator-management endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, http.StatusInternalServerError, "unable to authenticate")
	}

	return Success(c, http.StatusOK, "login successful", dto.LoginResponse{AccessToken: token})
}

// ListOperators handles GET /api/admin/operators requests.
func (h *AuthHandler) ListOperators(c echo.Context) error {
	operators, err := h.authService.ListOperators(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list operators")
	}

	out := make([]dto.OperatorResponse, 0, len(operators))
	for _, op := range operators {
		out = append(out, dto.OperatorResponse{ID: op.ID.String(), Email: op.Email, Role: op.Role})
	}
	return Success(c, http.StatusOK, "operators retrieved", out)
}

// CreateOperator handles POST /api/admin/operators requests.
func (h *AuthHandler) CreateOperator(c echo.Context) error {
	var req dto.CreateOperatorRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	operator, err := h.authService.CreateOperator(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return Error(c, http.StatusConflict, "email already exists")
		}
		return Error(c, http.StatusInternalServerError, "unable to create operator")
	}

	return Success(c, http.StatusCreated, "operator created", dto.OperatorResponse{
		ID:    operator.ID.String(),
		Email: operator.Email,
		Role:  operator.Role,
	})
}
