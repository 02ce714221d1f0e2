package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trip-impact-service/internal/domain"
	apperrors "github.com/trip-impact-service/internal/pkg/errors"
)

const testGroup = "simulation-run-workers"

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockRunner is a mock of Runner
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Generate(ctx context.Context, userInput string) (*domain.GenerateResult, error) {
	args := m.Called(ctx, userInput)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerateResult), args.Error(1)
}

func (m *MockRunner) SimulateWithBlocks(ctx context.Context, req domain.ImpactRequest) (*domain.ImpactResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImpactResult), args.Error(1)
}

func newTestWorker(stream *MockStreamRepository, runner *MockRunner, retries int) *SimulationWorker {
	return NewSimulationWorker(stream, runner, testGroup, retries, zap.NewNop())
}

func TestSimulationWorker_Name(t *testing.T) {
	w := newTestWorker(&MockStreamRepository{}, &MockRunner{}, 1)
	assert.Equal(t, "simulation-runs", w.Name())
}

func TestSimulationWorker_Stop(t *testing.T) {
	w := newTestWorker(&MockStreamRepository{}, &MockRunner{}, 1)

	assert.NoError(t, w.Stop())
	// second stop is a no-op
	assert.NoError(t, w.Stop())
	assert.True(t, w.IsStopped())
}

func TestSimulationWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	requestID := uuid.New()
	sessionID := uuid.New()

	t.Run("generate request published and acked", func(t *testing.T) {
		stream := &MockStreamRepository{}
		runner := &MockRunner{}
		w := newTestWorker(stream, runner, 1)

		stream.On("ConsumeBatch", ctx, domain.StreamSimulationRequest, testGroup, mock.Anything, maxBatchSize).
			Return([]domain.StreamMessage{{
				ID:   "1-0",
				Data: `{"request_id":"` + requestID.String() + `","kind":"generate","user_input":"drive to AUC"}`,
			}}, nil)
		runner.On("Generate", ctx, "drive to AUC").Return(&domain.GenerateResult{SessionID: sessionID}, nil)
		stream.On("PublishToStream", ctx, domain.StreamSimulationDone, mock.MatchedBy(func(e *domain.SimulationDoneEvent) bool {
			return e.RequestID == requestID && e.Generate != nil && e.Generate.SessionID == sessionID && e.Error == ""
		})).Return(nil)
		stream.On("AckMessage", ctx, domain.StreamSimulationRequest, testGroup, "1-0").Return(nil)
		stream.On("AckMessages", ctx, domain.StreamSimulationRequest, testGroup, []string(nil)).Return(nil)

		processed, err := w.processBatch(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, processed)
		stream.AssertExpectations(t)
	})

	t.Run("pipeline error becomes part of result", func(t *testing.T) {
		stream := &MockStreamRepository{}
		runner := &MockRunner{}
		w := newTestWorker(stream, runner, 1)

		stream.On("ConsumeBatch", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.StreamMessage{{
				ID:   "2-0",
				Data: `{"request_id":"` + requestID.String() + `","kind":"simulate","session_id":"` + sessionID.String() + `","blocked_road_ids":[5,9]}`,
			}}, nil)
		runner.On("SimulateWithBlocks", ctx, domain.ImpactRequest{
			SessionID:      sessionID,
			BlockedRoadIDs: []int64{5, 9},
		}).Return(nil, apperrors.ErrNoFinishedTrips)
		stream.On("PublishToStream", ctx, domain.StreamSimulationDone, mock.MatchedBy(func(e *domain.SimulationDoneEvent) bool {
			return e.ErrorCode == "NO_FINISHED_TRIPS" && !e.Fatal && e.Impact == nil
		})).Return(nil)
		stream.On("AckMessage", ctx, domain.StreamSimulationRequest, testGroup, "2-0").Return(nil)
		stream.On("AckMessages", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := w.processBatch(ctx)

		require.NoError(t, err)
		stream.AssertExpectations(t)
	})

	t.Run("malformed message acked and skipped", func(t *testing.T) {
		stream := &MockStreamRepository{}
		runner := &MockRunner{}
		w := newTestWorker(stream, runner, 1)

		stream.On("ConsumeBatch", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.StreamMessage{
				{ID: "3-0", Data: `not json`},
				{ID: "3-1", Data: `{"kind":"simulate"}`},
			}, nil)
		stream.On("AckMessages", ctx, domain.StreamSimulationRequest, testGroup, []string{"3-0", "3-1"}).Return(nil)

		processed, err := w.processBatch(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, processed)
		runner.AssertNotCalled(t, "SimulateWithBlocks", mock.Anything, mock.Anything)
		stream.AssertNotCalled(t, "PublishToStream", mock.Anything, mock.Anything, mock.Anything)
		stream.AssertNotCalled(t, "AckMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		stream.AssertExpectations(t)
	})

	t.Run("publish failure leaves message pending", func(t *testing.T) {
		stream := &MockStreamRepository{}
		runner := &MockRunner{}
		w := newTestWorker(stream, runner, 2)

		stream.On("ConsumeBatch", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.StreamMessage{{
				ID:   "4-0",
				Data: `{"request_id":"` + requestID.String() + `","kind":"generate","user_input":"walk"}`,
			}}, nil)
		runner.On("Generate", ctx, "walk").Return(nil, apperrors.ErrExtraction)
		stream.On("PublishToStream", ctx, domain.StreamSimulationDone, mock.Anything).Return(errors.New("READONLY"))
		stream.On("AckMessages", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := w.processBatch(ctx)

		require.NoError(t, err)
		stream.AssertNumberOfCalls(t, "PublishToStream", 2)
		stream.AssertNotCalled(t, "AckMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty queue", func(t *testing.T) {
		stream := &MockStreamRepository{}
		w := newTestWorker(stream, &MockRunner{}, 1)
		stream.On("ConsumeBatch", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.StreamMessage{}, nil)

		processed, err := w.processBatch(ctx)

		require.NoError(t, err)
		assert.Zero(t, processed)
	})
}

func TestSimulationWorker_ContextCancellation(t *testing.T) {
	stream := &MockStreamRepository{}
	w := newTestWorker(stream, &MockRunner{}, 1)

	stream.On("CreateConsumerGroup", mock.Anything, domain.StreamSimulationRequest, testGroup).Return(nil)
	stream.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestSimulationWorker_ConsumerGroupFailure(t *testing.T) {
	stream := &MockStreamRepository{}
	w := newTestWorker(stream, &MockRunner{}, 1)
	stream.On("CreateConsumerGroup", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("NOAUTH"))

	err := w.Start(context.Background())

	assert.Error(t, err)
}
