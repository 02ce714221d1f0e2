package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trip-impact-service/internal/config"
	"github.com/trip-impact-service/internal/domain"
	"go.uber.org/zap"
)

func newTestClient(url string) *client {
	return NewNominatimClient(&config.GeocoderConfig{
		BaseURL:   url,
		UserAgent: "trip-impact-test",
		Timeout:   5 * time.Second,
	}, zap.NewNop()).(*client)
}

func TestClient_Geocode(t *testing.T) {
	t.Run("first result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "Cairo Festival City", r.URL.Query().Get("q"))
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			assert.Equal(t, "trip-impact-test", r.Header.Get("User-Agent"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"lon":"31.4086","lat":"30.0286","display_name":"Cairo Festival City"}]`))
		}))
		defer server.Close()

		coord, err := newTestClient(server.URL).Geocode(context.Background(), "Cairo Festival City")
		require.NoError(t, err)
		assert.Equal(t, domain.Coordinate{Lon: 31.4086, Lat: 30.0286}, coord)
	})

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"empty result list", http.StatusOK, `[]`},
		{"non-2xx status", http.StatusServiceUnavailable, `busy`},
		{"malformed numbers", http.StatusOK, `[{"lon":"east","lat":"30.0"}]`},
		{"out of range", http.StatusOK, `[{"lon":"200","lat":"30.0"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Geocode(context.Background(), "Nowhere")
			assert.ErrorIs(t, err, domain.ErrLocationNotFound)
		})
	}

	t.Run("transport failure is not a not-found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		_, err := newTestClient(server.URL).Geocode(context.Background(), "Nowhere")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrLocationNotFound)
	})
}
