package repository

import (
	"context"

	"github.com/trip-impact-service/internal/domain"
)

// GeocoderRepository разрешает название места в координаты
type GeocoderRepository interface {
	// Geocode возвращает первую найденную точку или ошибку domain.ErrLocationNotFound
	Geocode(ctx context.Context, location string) (domain.Coordinate, error)
}
