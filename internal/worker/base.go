package worker

import (
	"sync"

	"go.uber.org/zap"
)

// BaseWorker - остановка, consumer group и отметка текущего прогона для воркеров стримов
type BaseWorker struct {
	name          string
	consumerGroup string
	logger        *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	inFlight string
}

func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:          name,
		consumerGroup: consumerGroup,
		logger:        logger.With(zap.String("worker", name)),
		stopChan:      make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Stop закрывает StopChan, повторный вызов ничего не делает.
// Текущий прогон не прерывается, цикл воркера выходит после него
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		if id := w.InFlight(); id != "" {
			w.logger.Info("Stopping worker, waiting for run in progress", zap.String("request_id", id))
		} else {
			w.logger.Info("Stopping worker")
		}
		close(w.stopChan)
	})
	return nil
}

func (w *BaseWorker) IsStopped() bool {
	select {
	case <-w.stopChan:
		return true
	default:
		return false
	}
}

func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

// Logger - логгер с полем worker
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// Track отмечает прогон request_id как выполняемый, возвращённая функция снимает отметку
func (w *BaseWorker) Track(requestID string) func() {
	w.mu.Lock()
	w.inFlight = requestID
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		w.inFlight = ""
		w.mu.Unlock()
	}
}

// InFlight - request_id текущего прогона, пусто если воркер простаивает
func (w *BaseWorker) InFlight() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}
