package repository

import (
	"context"

	"github.com/trip-impact-service/internal/domain"
)

// RunRepository - журнал прогонов, только добавление
type RunRepository interface {
	// EnsureSchema создаёт таблицу simulations, если её нет
	EnsureSchema(ctx context.Context) error

	// Insert добавляет запись и возвращает её id
	Insert(ctx context.Context, record *domain.RunRecord) (int64, error)

	// ListRecent возвращает последние записи, новые первыми
	ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
