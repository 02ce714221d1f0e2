package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trip-impact-service/internal/domain"
	apperrors "github.com/trip-impact-service/internal/pkg/errors"
	"github.com/trip-impact-service/internal/usecase"
)

func TestGeocodeUseCase_Geocode(t *testing.T) {
	ctx := context.Background()
	coord := domain.Coordinate{Lon: 31.4913, Lat: 30.0287}

	t.Run("cache hit skips geocoder", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		cache := &MockCacheRepository{}
		cache.On("GetCoordinate", ctx, "AUC").Return(&coord, nil)

		uc := usecase.NewGeocodeUseCase(geocoder, cache, time.Hour, zap.NewNop())
		got, err := uc.Geocode(ctx, "AUC")

		require.NoError(t, err)
		assert.Equal(t, coord, got)
		geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("cache miss stores result", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		geocoder.On("Geocode", ctx, "AUC").Return(coord, nil)
		cache := &MockCacheRepository{}
		cache.On("GetCoordinate", ctx, "AUC").Return(nil, nil)
		cache.On("SetCoordinate", ctx, "AUC", coord, time.Hour).Return(nil)

		uc := usecase.NewGeocodeUseCase(geocoder, cache, time.Hour, zap.NewNop())
		got, err := uc.Geocode(ctx, "AUC")

		require.NoError(t, err)
		assert.Equal(t, coord, got)
		cache.AssertExpectations(t)
	})

	t.Run("cache errors are ignored", func(t *testing.T) {
		geocoder := &MockGeocoder{}
		geocoder.On("Geocode", ctx, "AUC").Return(coord, nil)
		cache := &MockCacheRepository{}
		cache.On("GetCoordinate", ctx, "AUC").Return(nil, errors.New("connection refused"))
		cache.On("SetCoordinate", ctx, "AUC", coord, time.Hour).Return(errors.New("connection refused"))

		uc := usecase.NewGeocodeUseCase(geocoder, cache, time.Hour, zap.NewNop())
		got, err := uc.Geocode(ctx, "AUC")

		require.NoError(t, err)
		assert.Equal(t, coord, got)
	})
}

func TestGeocodeUseCase_ResolveTrip(t *testing.T) {
	ctx := context.Background()
	intent := &domain.TripIntent{Origin: "Home", Destination: "Nowhere", Mode: domain.TravelModeDrive, Purpose: domain.TripPurposeWork}

	geocoder := &MockGeocoder{}
	geocoder.On("Geocode", ctx, "Home").Return(domain.Coordinate{Lon: 31.4, Lat: 30.0}, nil)
	geocoder.On("Geocode", ctx, "Nowhere").Return(domain.Coordinate{}, fmt.Errorf("nominatim: %w", domain.ErrLocationNotFound))

	uc := usecase.NewGeocodeUseCase(geocoder, nil, time.Hour, zap.NewNop())
	_, _, err := uc.ResolveTrip(ctx, intent)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrGeocoding))
	assert.True(t, errors.Is(err, domain.ErrLocationNotFound))

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "destination", appErr.Details["role"])
}
