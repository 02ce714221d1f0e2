package usecase

import (
	"context"
	"time"

	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// GeocodeUseCase разрешает места поездки в координаты с кешем в Redis
type GeocodeUseCase struct {
	geocoder repository.GeocoderRepository
	cache    repository.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewGeocodeUseCase - cache может быть nil
func NewGeocodeUseCase(
	geocoder repository.GeocoderRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *GeocodeUseCase {
	return &GeocodeUseCase{
		geocoder: geocoder,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Geocode возвращает координаты места. Ошибки кеша не влияют на результат
func (uc *GeocodeUseCase) Geocode(ctx context.Context, location string) (domain.Coordinate, error) {
	if uc.cache != nil {
		cached, err := uc.cache.GetCoordinate(ctx, location)
		if err != nil {
			uc.logger.Warn("Geocode cache read failed", zap.String("location", location), zap.Error(err))
		} else if cached != nil {
			uc.logger.Debug("Geocode cache hit", zap.String("location", location))
			return *cached, nil
		}
	}

	coord, err := uc.geocoder.Geocode(ctx, location)
	if err != nil {
		return domain.Coordinate{}, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetCoordinate(ctx, location, coord, uc.cacheTTL); err != nil {
			uc.logger.Warn("Geocode cache write failed", zap.String("location", location), zap.Error(err))
		}
	}

	return coord, nil
}

// ResolveTrip геокодирует начало и конец поездки. Нужны обе точки, иначе ErrGeocoding
func (uc *GeocodeUseCase) ResolveTrip(ctx context.Context, intent *domain.TripIntent) (domain.Coordinate, domain.Coordinate, error) {
	origin, err := uc.Geocode(ctx, intent.Origin)
	if err != nil {
		uc.logger.Warn("Could not geocode origin", zap.String("location", intent.Origin), zap.Error(err))
		return domain.Coordinate{}, domain.Coordinate{}, errors.ErrGeocoding.
			WithDetails(map[string]interface{}{"location": intent.Origin, "role": "origin"}).
			WithCause(err)
	}

	destination, err := uc.Geocode(ctx, intent.Destination)
	if err != nil {
		uc.logger.Warn("Could not geocode destination", zap.String("location", intent.Destination), zap.Error(err))
		return domain.Coordinate{}, domain.Coordinate{}, errors.ErrGeocoding.
			WithDetails(map[string]interface{}{"location": intent.Destination, "role": "destination"}).
			WithCause(err)
	}

	return origin, destination, nil
}
