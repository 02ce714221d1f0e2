package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trip-impact-service/internal/config"
	"github.com/trip-impact-service/internal/delivery/http/handler"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/pkg/errors"
)

type stubPipeline struct{}

func (stubPipeline) Generate(ctx context.Context, userInput string) (*domain.GenerateResult, error) {
	return nil, errors.ErrExtraction
}

func (stubPipeline) SimulateWithBlocks(ctx context.Context, req domain.ImpactRequest) (*domain.ImpactResult, error) {
	return nil, errors.ErrSessionNotFound
}

func (stubPipeline) Session(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return nil, errors.ErrSessionNotFound
}

type stubRuns struct{}

func (stubRuns) ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	return nil, nil
}

type stubMaps struct{}

func (stubMaps) MapSummary(ctx context.Context) (*domain.MapSummary, error) {
	return &domain.MapSummary{Roads: 1250, Intersections: 410}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zap.NewNop()
	cfg := &config.Config{Server: config.ServerConfig{CORSOrigins: "http://localhost:3000"}}

	return NewServer(cfg, logger,
		handler.NewScenarioHandler(stubPipeline{}, time.Minute, logger),
		handler.NewRunHandler(stubRuns{}, logger),
		handler.NewMapHandler(stubMaps{}, logger),
	)
}

func decodeError(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var resp map[string]map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp["error"]
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestServer_MapSummary(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/v1/map/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1250, body.Data["roads"])
	assert.Equal(t, 410, body.Data["intersections"])
}

func TestServer_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/v1/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ROUTE_NOT_FOUND", decodeError(t, resp.Body)["code"])
}

func TestServer_PanicRecovered(t *testing.T) {
	s := newTestServer(t)
	s.App().Get("/boom", func(c *fiber.Ctx) error {
		panic("road graph corrupted")
	})

	resp, err := s.App().Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeError(t, resp.Body)["code"])
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/v1/scenarios/generate", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")

		resp, err := s.App().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/v1/scenarios/generate", nil)
		req.Header.Set("Origin", "http://evil.example")
		req.Header.Set("Access-Control-Request-Method", "POST")

		resp, err := s.App().Test(req)
		require.NoError(t, err)
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
