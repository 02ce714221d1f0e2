package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/trip-impact-service/internal/config"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"go.uber.org/zap"
)

// searchResult - элемент ответа /search, координаты приходят строками
type searchResult struct {
	Lon         string `json:"lon"`
	Lat         string `json:"lat"`
	DisplayName string `json:"display_name"`
}

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// NewNominatimClient создает клиент геокодера Nominatim
func NewNominatimClient(cfg *config.GeocoderConfig, logger *zap.Logger) repository.GeocoderRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Geocode запрашивает не более одного результата и возвращает его координаты
func (c *client) Geocode(ctx context.Context, location string) (domain.Coordinate, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute geocode request",
			zap.String("location", location),
			zap.Error(err))
		return domain.Coordinate{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("Nominatim returned error",
			zap.String("location", location),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return domain.Coordinate{}, fmt.Errorf("%w: %q (status %d)", domain.ErrLocationNotFound, location, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinate{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(results) == 0 {
		return domain.Coordinate{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, location)
	}

	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	if errLon != nil || errLat != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: %q has malformed coordinates lon=%q lat=%q",
			domain.ErrLocationNotFound, location, results[0].Lon, results[0].Lat)
	}

	coord := domain.Coordinate{Lon: lon, Lat: lat}
	if !coord.Valid() {
		return domain.Coordinate{}, fmt.Errorf("%w: %q is out of range", domain.ErrLocationNotFound, location)
	}

	c.logger.Debug("Location geocoded",
		zap.String("location", location),
		zap.String("display_name", results[0].DisplayName),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon))

	return coord, nil
}
