package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/intake-api/internal/auth"
	"github.com/octobees/intake-api/internal/config"
	"github.com/octobees/intake-api/internal/handler"
	middlewarepkg "github.com/octobees/intake-api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Intake        *handler.IntakeHandler
	Emails        *handler.EmailsHandler
	EnrichWebhook *handler.EnrichWebhookHandler
	Auth          *handler.AuthHandler
}

// Register wires all HTTP routes for the API. The admin data endpoints are
// deliberately left open; only operator management sits behind JWT.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	api := e.Group("/api")

	api.POST("/submit", handlers.Intake.Submit, middlewarepkg.SubmitRateLimiter(cfg.RateLimitSubmit))
	api.GET("/submissions", handlers.Intake.List)
	api.PATCH("/submissions/:id/status", handlers.Intake.UpdateStatus)

	api.GET("/emails/generated", handlers.Emails.ListGenerated)
	api.POST("/emails/send", handlers.Emails.Send)

	api.POST("/webhook/enrich", handlers.EnrichWebhook.Receive, middlewarepkg.SharedSecret(cfg.WebhookSecret))

	api.POST("/auth/login", handlers.Auth.Login)

	admin := api.Group("/admin", middlewarepkg.JWT(jwtManager), middlewarepkg.RequireRole("admin"))
	admin.GET("/operators", handlers.Auth.ListOperators)
	admin.POST("/operators", handlers.Auth.CreateOperator)
}
