package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/intake-api/internal/auth"
	"github.com/octobees/intake-api/internal/config"
	"github.com/octobees/intake-api/internal/webhook"
)

func runMiddleware(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	handler := mw(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, nextCalled
}

func TestSharedSecret_MissingConfiguration(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/enrich", strings.NewReader(`{"submissionId":"x"}`))
	rec, nextCalled := runMiddleware(SharedSecret(""), req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when secret unconfigured, got %d", rec.Code)
	}
	if nextCalled {
		t.Fatalf("handler must not run without a configured secret")
	}
}

func TestSharedSecret_RejectsBeforeParsing(t *testing.T) {
	// The body is deliberately invalid: rejection must happen on the header
	// alone, regardless of payload validity.
	cases := map[string]string{
		"missing header": "",
		"wrong secret":   "nope",
	}
	for name, provided := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/webhook/enrich", strings.NewReader("this is not json"))
			if provided != "" {
				req.Header.Set(webhook.SecretHeader, provided)
			}
			rec, nextCalled := runMiddleware(SharedSecret("real-secret"), req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if nextCalled {
				t.Fatalf("handler must not run for unauthenticated caller")
			}
		})
	}
}

func TestSharedSecret_Accepts(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/enrich", nil)
	req.Header.Set(webhook.SecretHeader, "real-secret")
	rec, nextCalled := runMiddleware(SharedSecret("real-secret"), req)

	if rec.Code != http.StatusOK || !nextCalled {
		t.Fatalf("expected request to pass through, got %d (next=%v)", rec.Code, nextCalled)
	}
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := runMiddleware(RequestID(), req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id header")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	rec, _ = runMiddleware(RequestID(), req)
	if rec.Header().Get("X-Request-ID") != "caller-id" {
		t.Fatalf("expected caller-provided id preserved")
	}
}

func TestSubmitRateLimiter(t *testing.T) {
	mw := SubmitRateLimiter(config.RateLimitConfig{Requests: 2, Interval: time.Hour})

	var lastCode int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/submit", nil)
		rec, _ := runMiddleware(mw, req)
		lastCode = rec.Code
	}
	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", lastCode)
	}
}

func TestSubmitRateLimiter_DisabledPassesThrough(t *testing.T) {
	mw := SubmitRateLimiter(config.RateLimitConfig{})
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/submit", nil)
		rec, nextCalled := runMiddleware(mw, req)
		if rec.Code != http.StatusOK || !nextCalled {
			t.Fatalf("expected pass-through with zero config")
		}
	}
}

func TestJWT(t *testing.T) {
	manager := authpkg.NewJWTManager("test-secret", time.Hour)
	mw := JWT(manager)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/operators", nil)
	rec, _ := runMiddleware(mw, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing header, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/operators", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec, _ = runMiddleware(mw, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}

	token, err := manager.GenerateToken("op-1", "ops@example.com", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/admin/operators", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, nextCalled := runMiddleware(mw, req)
	if rec.Code != http.StatusOK || !nextCalled {
		t.Fatalf("expected valid token to pass, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	check := func(role string, want int) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if role != "" {
			c.Set(ContextKeyOperatorRole, role)
		}
		handler := RequireRole("admin")(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		_ = handler(c)
		if rec.Code != want {
			t.Fatalf("role %q: expected %d, got %d", role, want, rec.Code)
		}
	}

	check("", http.StatusForbidden)
	check("operator", http.StatusForbidden)
	check("admin", http.StatusOK)
}
