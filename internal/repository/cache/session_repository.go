package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"go.uber.org/zap"
)

const latestSessionKey = "session:latest"

type sessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewSessionRepository(redis *Redis) repository.SessionRepository {
	return &sessionRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("session:%s", id)
}

// SaveSession сохраняет сессию и указатель на последнюю сессию одной транзакцией
func (r *sessionRepository) SaveSession(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), data, ttl)
		pipe.Set(ctx, latestSessionKey, session.ID.String(), ttl)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save session",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		return fmt.Errorf("save session: %w", err)
	}

	r.logger.Debug("Session saved",
		zap.String("session_id", session.ID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get session", zap.String("session_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &session, nil
}

func (r *sessionRepository) GetLatestSession(ctx context.Context) (*domain.Session, error) {
	raw, err := r.client.Get(ctx, latestSessionKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest session id: %w", err)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse latest session id: %w", err)
	}

	return r.GetSession(ctx, id)
}
