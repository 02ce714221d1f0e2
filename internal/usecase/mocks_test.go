package usecase_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/trip-impact-service/internal/domain"
)

// MockLanguageModel is a mock of LanguageModelRepository
type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockGeocoder is a mock of GeocoderRepository
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, location string) (domain.Coordinate, error) {
	args := m.Called(ctx, location)
	return args.Get(0).(domain.Coordinate), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetCoordinate(ctx context.Context, location string) (*domain.Coordinate, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coordinate), args.Error(1)
}

func (m *MockCacheRepository) SetCoordinate(ctx context.Context, location string, coord domain.Coordinate, ttl time.Duration) error {
	args := m.Called(ctx, location, coord, ttl)
	return args.Error(0)
}

// MockSessionRepository is a mock of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

func (m *MockSessionRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) GetLatestSession(ctx context.Context) (*domain.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

// MockScenarioRepository is a mock of ScenarioRepository
type MockScenarioRepository struct {
	mock.Mock
}

func (m *MockScenarioRepository) Save(ctx context.Context, scenario *domain.Scenario) (string, error) {
	args := m.Called(ctx, scenario)
	return args.String(0), args.Error(1)
}

func (m *MockScenarioRepository) Load(ctx context.Context, path string) (*domain.Scenario, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scenario), args.Error(1)
}

// MockCompiler is a mock of ScenarioCompilerRepository
type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Import(ctx context.Context, mapBinPath, scenarioPath string) error {
	args := m.Called(ctx, mapBinPath, scenarioPath)
	return args.Error(0)
}

// MockSimulationRepository is a mock of SimulationRepository
type MockSimulationRepository struct {
	mock.Mock
}

func (m *MockSimulationRepository) LoadScenario(ctx context.Context, scenarioBinPath string, edits *domain.RoadEdits) error {
	args := m.Called(ctx, scenarioBinPath, edits)
	return args.Error(0)
}

func (m *MockSimulationRepository) GotoTime(ctx context.Context, target domain.SimulationTarget) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockSimulationRepository) GetRoadThroughput(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockSimulationRepository) GetEditRoadCommand(ctx context.Context, roadID int64) (*domain.EditRoadCommand, error) {
	args := m.Called(ctx, roadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditRoadCommand), args.Error(1)
}

func (m *MockSimulationRepository) GetFinishedTrips(ctx context.Context) ([]domain.FinishedTrip, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinishedTrip), args.Error(1)
}

func (m *MockSimulationRepository) GetMapGeometry(ctx context.Context) (*domain.MapSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MapSummary), args.Error(1)
}

// MockRunRepository is a mock of RunRepository
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRunRepository) Insert(ctx context.Context, record *domain.RunRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRunRepository) ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RunRecord), args.Error(1)
}

// editCommand - ответ get-edit-road-command с двумя полосами
func editCommand(name string) *domain.EditRoadCommand {
	return &domain.EditRoadCommand{
		ChangeRoad: domain.ChangeRoad{
			"r": []byte(`{"id":1}`),
			"old": []byte(`{"lanes_ltr":[{"lt":"Driving","dir":"Fwd","width":3500}]}`),
			"new": []byte(`{"speed_limit":13.4,"lanes_ltr":[{"lt":"Driving","dir":"Fwd","width":3500},{"lt":"Sidewalk","dir":"Back","width":1500}]}`),
		},
		RoadName: name,
	}
}

func durationPtr(ms float64) *float64 {
	return &ms
}

// memoryLocks - LockRepository в памяти, общий для нескольких SimulationLock,
// как Redis для нескольких процессов
type memoryLocks struct {
	mu        sync.Mutex
	owners    map[string]string
	refreshes int
	failWith  error
}

func newMemoryLocks() *memoryLocks {
	return &memoryLocks{owners: make(map[string]string)}
}

func (l *memoryLocks) TryAcquire(_ context.Context, key, token string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return false, l.failWith
	}
	if _, held := l.owners[key]; held {
		return false, nil
	}
	l.owners[key] = token
	return true, nil
}

func (l *memoryLocks) Refresh(_ context.Context, key, token string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshes++
	return l.owners[key] == token, nil
}

func (l *memoryLocks) Release(_ context.Context, key, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owners[key] != token {
		return false, nil
	}
	delete(l.owners, key)
	return true, nil
}

func (l *memoryLocks) holder(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owners[key]
}

func (l *memoryLocks) refreshCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshes
}

var errLockBackendDown = errors.New("redis: connection refused")
