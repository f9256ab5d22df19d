package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/api/http/handlers"
	"github.com/fmht/buzon-service/internal/auth"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/observability"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type stubAccounts map[int64]*domain.Admin

func (s stubAccounts) GetByID(_ context.Context, id int64) (*domain.Admin, error) {
	if a, ok := s[id]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

type testServer struct {
	app    *fiber.App
	tokens *auth.TokenManager
}

// newTestServer wires routes with nil services; only paths that fail before reaching a service are exercised.
func newTestServer(t *testing.T, postgres pinger) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	tokens := auth.NewTokenManager("router-test", 5)
	accounts := stubAccounts{
		1: {ID: 1, Role: domain.RoleAdmin, Active: true},
		2: {ID: 2, Role: domain.RoleMonitor, Active: true},
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("buzon", "test", postgres, pinger{err: errors.New("redis down")}, metrics),
		Public:         handlers.NewPublicHandler(nil, nil, nil),
		Auth:           handlers.NewAuthHandler(nil, nil),
		Communications: handlers.NewCommunicationsHandler(nil),
		Tracking:       handlers.NewTrackingHandler(nil, nil),
		Catalog:        handlers.NewCatalogHandler(nil),
		Admins:         handlers.NewAdminsHandler(nil),
		Submitters:     handlers.NewSubmittersHandler(nil),
		Evidence:       handlers.NewEvidenceHandler(nil),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, accounts, nil),
	})
	return &testServer{app: app, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, adminID int64, role domain.AdminRole, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if adminID > 0 {
		token, _, err := s.tokens.GenerateToken(adminID, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp.StatusCode, payload
}

func errorCode(payload map[string]any) string {
	errBody, _ := payload["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, pinger{})

	status, body := srv.do(t, "GET", "/health/live", 0, "", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "alive", body["status"])

	status, body = srv.do(t, "GET", "/health/ready", 0, "", "")
	assert.Equal(t, 200, status)
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "ok", deps["postgres"])
	assert.Equal(t, "redis down", deps["redis"])

	down := newTestServer(t, pinger{err: errors.New("pg down")})
	status, body = down.do(t, "GET", "/health/ready", 0, "", "")
	assert.Equal(t, 503, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))
}

func TestPublicRoutes_ValidateBeforeServices(t *testing.T) {
	srv := newTestServer(t, pinger{})

	status, body := srv.do(t, "GET", "/api/public/seguimiento", 0, "", "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = srv.do(t, "POST", "/api/public/comunicaciones/0/evidencias", 0, "", "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, _ = srv.do(t, "POST", "/api/public/comunicaciones", 0, "", "{not json")
	assert.Equal(t, 400, status)

	status, body = srv.do(t, "POST", "/api/auth/login", 0, "", `{"correo":""}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	srv := newTestServer(t, pinger{})

	for _, path := range []string{"/api/comunicaciones", "/api/estados", "/api/metrics", "/api/ciudadanos"} {
		status, body := srv.do(t, "GET", path, 0, "", "")
		assert.Equal(t, 401, status, path)
		assert.Equal(t, "UNAUTHORIZED", errorCode(body), path)
	}

	status, _ := srv.do(t, "GET", "/api/comunicaciones", 99, domain.RoleAdmin, "")
	assert.Equal(t, 401, status, "unknown account")
}

func TestRoleGuards(t *testing.T) {
	srv := newTestServer(t, pinger{})

	status, body := srv.do(t, "GET", "/api/metrics", 2, domain.RoleMonitor, "")
	assert.Equal(t, 403, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = srv.do(t, "POST", "/api/estados", 2, domain.RoleMonitor, `{"nombre":"Nuevo"}`)
	assert.Equal(t, 403, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	// role comes from the stored account, not the token claim
	status, _ = srv.do(t, "GET", "/api/metrics", 2, domain.RoleAdmin, "")
	assert.Equal(t, 403, status)

	status, body = srv.do(t, "GET", "/api/metrics", 1, domain.RoleAdmin, "")
	assert.Equal(t, 200, status)
	assert.Contains(t, body["data"], "requests")
}

func TestErrorRendering(t *testing.T) {
	srv := newTestServer(t, pinger{})

	status, body := srv.do(t, "GET", "/api/comunicaciones/abc", 1, domain.RoleAdmin, "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "id", details["param"])

	status, body = srv.do(t, "GET", "/api/no-existe", 1, domain.RoleAdmin, "")
	assert.Equal(t, 404, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = srv.do(t, "GET", "/api/seguimientos/1/x", 1, domain.RoleAdmin, "")
	assert.Equal(t, 404, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestUnknownPublicRoutesAreNotFound(t *testing.T) {
	srv := newTestServer(t, pinger{})

	for _, path := range []string{"/api/public/no-existe", "/api/public/comunicaciones/1/otra"} {
		status, body := srv.do(t, "GET", path, 0, "", "")
		assert.Equal(t, 404, status, path)
		assert.Equal(t, "NOT_FOUND", errorCode(body), path)
	}
}
