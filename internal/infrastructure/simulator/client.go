package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/trip-impact-service/internal/config"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"go.uber.org/zap"
)

type loadRequest struct {
	Scenario  string            `json:"scenario"`
	Modifiers []json.RawMessage `json:"modifiers"`
	Edits     *domain.RoadEdits `json:"edits"`
}

type thruputResponse struct {
	Counts [][]json.RawMessage `json:"counts"`
}

type geometryResponse struct {
	Roads         []json.RawMessage `json:"roads"`
	Intersections []json.RawMessage `json:"intersections"`
	Features      []struct {
		Properties map[string]interface{} `json:"properties"`
	} `json:"features"`
}

type client struct {
	httpClient    *http.Client
	advanceClient *http.Client
	baseURL       string
	logger        *zap.Logger
}

// NewSimulatorClient создает клиент HTTP API сервера симуляции.
// goto-time выполняется отдельным клиентом со своим таймаутом
func NewSimulatorClient(cfg *config.SimulatorConfig, logger *zap.Logger) repository.SimulationRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		advanceClient: &http.Client{
			Timeout: cfg.AdvanceTimeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// LoadScenario заменяет загруженный на сервере сценарий
func (c *client) LoadScenario(ctx context.Context, scenarioBinPath string, edits *domain.RoadEdits) error {
	payload := loadRequest{
		Scenario:  scenarioBinPath,
		Modifiers: []json.RawMessage{},
		Edits:     edits,
	}

	commands := 0
	if edits != nil {
		commands = len(edits.Commands)
	}
	c.logger.Info("Loading scenario into simulation server",
		zap.String("scenario", scenarioBinPath),
		zap.Int("edit_commands", commands))

	return c.do(ctx, c.httpClient, http.MethodPost, "/sim/load", payload, nil)
}

// GotoTime прогоняет симуляцию до target. Вызов может длиться долго
func (c *client) GotoTime(ctx context.Context, target domain.SimulationTarget) error {
	path := "/sim/goto-time?t=" + url.QueryEscape(target.String())
	c.logger.Info("Advancing simulation", zap.String("target_time", target.String()))
	return c.do(ctx, c.advanceClient, http.MethodGet, path, nil, nil)
}

// GetRoadThroughput возвращает отсортированный список дорог с ненулевым проездом.
// Первый элемент записи - id дороги, последний - счётчик
func (c *client) GetRoadThroughput(ctx context.Context) ([]int64, error) {
	var resp thruputResponse
	if err := c.do(ctx, c.httpClient, http.MethodGet, "/data/get-road-thruput", nil, &resp); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	for _, entry := range resp.Counts {
		if len(entry) == 0 {
			continue
		}
		var id int64
		if err := json.Unmarshal(entry[0], &id); err != nil {
			return nil, fmt.Errorf("decode road id %s: %w", string(entry[0]), err)
		}
		if len(entry) >= 2 {
			var count float64
			if err := json.Unmarshal(entry[len(entry)-1], &count); err == nil && count == 0 {
				continue
			}
		}
		seen[id] = struct{}{}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

func (c *client) GetEditRoadCommand(ctx context.Context, roadID int64) (*domain.EditRoadCommand, error) {
	path := "/map/get-edit-road-command?id=" + strconv.FormatInt(roadID, 10)

	var cmd domain.EditRoadCommand
	if err := c.do(ctx, c.httpClient, http.MethodGet, path, nil, &cmd); err != nil {
		return nil, err
	}
	if cmd.ChangeRoad == nil {
		cmd.ChangeRoad = domain.ChangeRoad{}
	}
	return &cmd, nil
}

func (c *client) GetFinishedTrips(ctx context.Context) ([]domain.FinishedTrip, error) {
	var trips []domain.FinishedTrip
	if err := c.do(ctx, c.httpClient, http.MethodGet, "/data/get-finished-trips", nil, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// GetMapGeometry понимает как {roads, intersections}, так и GeoJSON FeatureCollection
func (c *client) GetMapGeometry(ctx context.Context) (*domain.MapSummary, error) {
	var resp geometryResponse
	if err := c.do(ctx, c.httpClient, http.MethodGet, "/map/get-all-geometry", nil, &resp); err != nil {
		return nil, err
	}

	summary := &domain.MapSummary{
		Roads:         len(resp.Roads),
		Intersections: len(resp.Intersections),
	}
	for _, f := range resp.Features {
		switch f.Properties["type"] {
		case "road":
			summary.Roads++
		case "intersection":
			summary.Intersections++
		}
	}

	return summary, nil
}

func (c *client) do(ctx context.Context, httpClient *http.Client, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		c.logger.Error("Simulation server request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("Simulation server returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return fmt.Errorf("%s %s: status %d, body: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}
