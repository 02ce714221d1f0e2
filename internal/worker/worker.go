package worker

import (
	"context"
)

// Worker - фоновый потребитель, которым управляет WorkerManager
type Worker interface {
	// Start блокируется до отмены ctx или фатальной ошибки
	Start(ctx context.Context) error
	// Stop просит воркер завершиться, текущий прогон дорабатывает
	Stop() error
	Name() string
}
