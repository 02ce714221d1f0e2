package repository

import (
	"context"

	"github.com/trip-impact-service/internal/domain"
)

// StreamRepository - очереди запросов на прогон и их результатов
type StreamRepository interface {
	ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error)
	// ConsumeBatch не ждёт новых сообщений, пустой стрим даёт nil
	ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error)
	AckMessage(ctx context.Context, stream, group, messageID string) error
	AckMessages(ctx context.Context, stream, group string, messageIDs []string) error
	CreateConsumerGroup(ctx context.Context, stream, group string) error
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
