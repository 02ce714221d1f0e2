package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trip-impact-service/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetCoordinate возвращает закешированный результат геокодинга, nil если промах
	GetCoordinate(ctx context.Context, location string) (*domain.Coordinate, error)

	// SetCoordinate сохраняет результат геокодинга
	SetCoordinate(ctx context.Context, location string, coord domain.Coordinate, ttl time.Duration) error
}

// SessionRepository хранит сессии generate-пайплайна
type SessionRepository interface {
	// SaveSession сохраняет сессию и помечает её последней
	SaveSession(ctx context.Context, session *domain.Session, ttl time.Duration) error

	// GetSession возвращает сессию, nil если её нет или она истекла
	GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// GetLatestSession возвращает последнюю сохранённую сессию, nil если её нет
	GetLatestSession(ctx context.Context) (*domain.Session, error)
}
