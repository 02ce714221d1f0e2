package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetCoordinate получает результат геокодинга из кеша
func (r *cacheRepository) GetCoordinate(ctx context.Context, location string) (*domain.Coordinate, error) {
	data, err := r.Get(ctx, geocodeKey(location))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var coord domain.Coordinate
	if err := json.Unmarshal(data, &coord); err != nil {
		r.logger.Error("Failed to unmarshal coordinate from cache", zap.String("location", location), zap.Error(err))
		return nil, fmt.Errorf("unmarshal coordinate: %w", err)
	}

	return &coord, nil
}

// SetCoordinate сохраняет результат геокодинга в кеше
func (r *cacheRepository) SetCoordinate(ctx context.Context, location string, coord domain.Coordinate, ttl time.Duration) error {
	data, err := json.Marshal(coord)
	if err != nil {
		return fmt.Errorf("marshal coordinate: %w", err)
	}

	return r.Set(ctx, geocodeKey(location), data, ttl)
}

// geocodeKey нормализует строку места: регистр, пробелы по краям и внутри
func geocodeKey(location string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(location)), " ")
	return "geocode:" + normalized
}
