package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagraph/internal/config"
	"schemagraph/internal/middlewares"
	"schemagraph/internal/models"
)

type fakeService struct {
	readyErr error
}

func (f *fakeService) GetSchema(context.Context) (*models.SchemaGraph, error) {
	return &models.SchemaGraph{Tables: []models.Table{}, Relationships: []models.Relationship{}}, nil
}

func (f *fakeService) GetConstraints(context.Context) ([]models.ConstraintRow, error) {
	return []models.ConstraintRow{}, nil
}

func (f *fakeService) GetMermaid(context.Context) (string, error) {
	return "erDiagram\n", nil
}

func (f *fakeService) GetDiagram(context.Context) (*models.Diagram, error) {
	return &models.Diagram{Nodes: []models.Node{}, Edges: []models.Edge{}}, nil
}

func (f *fakeService) Ready(context.Context) error { return f.readyErr }

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.Server{Port: 5000, CORSAllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimit{RPS: 0, Burst: 10},
	}
}

func do(router http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterRoutes(t *testing.T) {
	router := NewRouter(testConfig(), &fakeService{})

	tests := []struct {
		path string
		body string
	}{
		{"/api/schema", `{"tables":[],"relationships":[]}`},
		{"/api/constraints", `{"rows":[]}`},
		{"/api/schema/mermaid", `{"mermaid":"erDiagram\n"}`},
		{"/api/diagram", `{"nodes":[],"edges":[]}`},
		{"/health", `{"ok":true}`},
		{"/ready", `{"ok":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(router, http.MethodGet, tt.path, nil)

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			assert.NotEmpty(t, w.Header().Get(middlewares.RequestIDHeader))
		})
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := NewRouter(testConfig(), &fakeService{})

	do(router, http.MethodGet, "/health", nil)
	w := do(router, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "schemagraph_http_requests_total")
}

func TestRouterReadyWhenDatabaseDown(t *testing.T) {
	router := NewRouter(testConfig(), &fakeService{readyErr: errors.New("down")})

	assert.Equal(t, http.StatusServiceUnavailable, do(router, http.MethodGet, "/ready", nil).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/health", nil).Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	router := NewRouter(testConfig(), &fakeService{})

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/tables", nil).Code)
}

func TestRouterCORS(t *testing.T) {
	router := NewRouter(testConfig(), &fakeService{})

	w := do(router, http.MethodGet, "/api/schema", http.Header{"Origin": {"http://localhost:3000"}})

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterRateLimitOnlyOnAPI(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimit{RPS: 0.001, Burst: 1}
	router := NewRouter(cfg, &fakeService{})

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/schema", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(router, http.MethodGet, "/api/schema", nil).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/health", nil).Code)
}

func TestCORSConfig(t *testing.T) {
	all := corsConfig([]string{"https://a.example", "*"})
	assert.True(t, all.AllowAllOrigins)

	some := corsConfig([]string{"https://a.example"})
	assert.False(t, some.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example"}, some.AllowOrigins)
	assert.Equal(t, []string{http.MethodGet, http.MethodOptions}, some.AllowMethods)
}
