package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/pkg/errors"
	"github.com/trip-impact-service/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize    = 5                      // прогоны долгие, берём немного
	emptyQueueSleep = 500 * time.Millisecond // пауза если очередь пуста
	publishBackoff  = 200 * time.Millisecond
)

// Runner - пайплайны, которые выполняет воркер
type Runner interface {
	Generate(ctx context.Context, userInput string) (*domain.GenerateResult, error)
	SimulateWithBlocks(ctx context.Context, req domain.ImpactRequest) (*domain.ImpactResult, error)
}

// SimulationWorker выполняет запросы на прогон из stream:simulation:request
type SimulationWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	runner       Runner
	consumerName string
	maxRetries   int
}

// NewSimulationWorker создает новый SimulationWorker
func NewSimulationWorker(
	streamRepo repository.StreamRepository,
	runner Runner,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *SimulationWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &SimulationWorker{
		BaseWorker:   worker.NewBaseWorker("simulation-runs", consumerGroup, logger),
		streamRepo:   streamRepo,
		runner:       runner,
		consumerName: consumerName,
		maxRetries:   maxRetries,
	}
}

// Start запускает воркер
func (w *SimulationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SimulationWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamSimulationRequest, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			if processed == 0 {
				time.Sleep(emptyQueueSleep)
			}
		}
	}
}

// processBatch читает сообщения и выполняет их по одному.
// Возвращает количество прочитанных сообщений
func (w *SimulationWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamSimulationRequest,
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	logger.Info("Processing simulation requests", zap.Int("message_count", len(messages)))

	// битые сообщения подтверждаются одним XACK в конце пачки
	var skipped []string
	defer func() {
		if err := w.streamRepo.AckMessages(ctx, domain.StreamSimulationRequest, w.ConsumerGroup(), skipped); err != nil {
			logger.Error("Failed to ack skipped messages", zap.Strings("message_ids", skipped), zap.Error(err))
		}
	}()

	for _, msg := range messages {
		select {
		case <-w.StopChan():
			// оставшиеся сообщения останутся в pending
			return len(messages), nil
		default:
		}

		event, err := w.parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			skipped = append(skipped, msg.ID)
			continue
		}

		done := w.execute(ctx, event)

		if err := w.publish(ctx, done); err != nil {
			// без ACK: сообщение будет переобработано
			logger.Error("Failed to publish done event",
				zap.String("request_id", event.RequestID.String()),
				zap.Error(err))
			continue
		}

		if err := w.streamRepo.AckMessage(ctx, domain.StreamSimulationRequest, w.ConsumerGroup(), msg.ID); err != nil {
			logger.Error("Failed to ack message", zap.String("message_id", msg.ID), zap.Error(err))
		}
	}

	return len(messages), nil
}

// execute выполняет один запрос. Ошибка прогона становится частью результата
func (w *SimulationWorker) execute(ctx context.Context, event *domain.SimulationRequestEvent) *domain.SimulationDoneEvent {
	defer w.Track(event.RequestID.String())()

	done := &domain.SimulationDoneEvent{
		RequestID: event.RequestID,
		Kind:      event.Kind,
	}

	var err error
	switch event.Kind {
	case domain.RequestKindGenerate:
		done.Generate, err = w.runner.Generate(ctx, event.UserInput)
	case domain.RequestKindSimulate:
		done.Impact, err = w.runner.SimulateWithBlocks(ctx, domain.ImpactRequest{
			SessionID:      *event.SessionID,
			BlockedRoadIDs: event.BlockedRoadIDs,
			UserInput:      event.UserInput,
		})
	}

	if err != nil {
		w.Logger().Warn("Simulation request failed",
			zap.String("request_id", event.RequestID.String()),
			zap.String("kind", event.Kind),
			zap.Error(err))
		done.Error = err.Error()
		done.Fatal = true
		if appErr, ok := errors.As(err); ok {
			done.ErrorCode = appErr.Code
			done.Error = appErr.Message
			done.Fatal = appErr.Fatal
		}
	}

	return done
}

// publish отправляет результат, повторяя до maxRetries раз
func (w *SimulationWorker) publish(ctx context.Context, done *domain.SimulationDoneEvent) error {
	attempts := w.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = w.streamRepo.PublishToStream(ctx, domain.StreamSimulationDone, done); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(publishBackoff):
		}
	}
	return fmt.Errorf("publish after %d attempts: %w", attempts, err)
}

// parseMessage парсит сообщение из стрима в SimulationRequestEvent
func (w *SimulationWorker) parseMessage(msg domain.StreamMessage) (*domain.SimulationRequestEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var event domain.SimulationRequestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return &event, nil
}
