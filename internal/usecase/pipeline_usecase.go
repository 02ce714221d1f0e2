package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/pkg/errors"
	"github.com/trip-impact-service/internal/pkg/logger"
	"go.uber.org/zap"
)

// PipelineUseCase проводит прогоны generate и simulate-with-blocks.
// Сервер симуляции держит один загруженный сценарий, поэтому участок
// запись сценария -> загрузка -> продвижение -> запросы выполняется под SimulationLock
type PipelineUseCase struct {
	intents    *IntentUseCase
	geocoder   *GeocodeUseCase
	scenarios  *ScenarioUseCase
	simulation *SimulationUseCase
	roads      *RoadUseCase
	metrics    *MetricsUseCase
	runs       *RunUseCase
	sessions   repository.SessionRepository
	sessionTTL time.Duration
	lock       *SimulationLock
	now        func() time.Time
	logger     *zap.Logger
}

func NewPipelineUseCase(
	intents *IntentUseCase,
	geocoder *GeocodeUseCase,
	scenarios *ScenarioUseCase,
	simulation *SimulationUseCase,
	roads *RoadUseCase,
	metrics *MetricsUseCase,
	runs *RunUseCase,
	sessions repository.SessionRepository,
	sessionTTL time.Duration,
	lock *SimulationLock,
	logger *zap.Logger,
) *PipelineUseCase {
	return &PipelineUseCase{
		intents:    intents,
		geocoder:   geocoder,
		scenarios:  scenarios,
		simulation: simulation,
		roads:      roads,
		metrics:    metrics,
		runs:       runs,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		lock:       lock,
		now:        time.Now,
		logger:     logger,
	}
}

// runState - стадия одного прогона, нужна только для логов
type runState struct {
	log   *zap.Logger
	stage domain.Stage
	start time.Time
}

func (s *runState) advance(stage domain.Stage, fields ...zap.Field) {
	s.stage = stage
	s.log.Info("Pipeline stage reached", append([]zap.Field{zap.String("stage", string(stage))}, fields...)...)
}

// fail переводит прогон в Failed. Нефатальные ошибки логируются как штатная остановка
func (s *runState) fail(err error) error {
	failedAt := s.stage
	s.stage = domain.StageFailed
	if errors.IsNonFatal(err) {
		s.log.Info("Pipeline stopped early",
			zap.String("stage", string(failedAt)),
			zap.String("reason", err.Error()))
		return err
	}
	s.log.Error("Pipeline failed",
		zap.String("stage", string(failedAt)),
		zap.Duration("elapsed", time.Since(s.start)),
		zap.Error(err))
	return err
}

func (uc *PipelineUseCase) startRun(pipeline string) *runState {
	return &runState{
		log:   logger.ForRun(uc.logger, uuid.NewString(), pipeline),
		stage: domain.StageIdle,
		start: time.Now(),
	}
}

// withSimulationServer выполняет fn под замком сервера симуляции.
// ctx ограничивает только ожидание замка, сами стадии не прерываются на полпути
func (uc *PipelineUseCase) withSimulationServer(ctx context.Context, fn func(context.Context) error) error {
	release, err := uc.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(context.WithoutCancel(ctx))
}

// Generate: текст -> намерение -> координаты -> сценарий -> компиляция -> прогон -> использованные дороги
func (uc *PipelineUseCase) Generate(ctx context.Context, userInput string) (*domain.GenerateResult, error) {
	run := uc.startRun(domain.PipelineGenerate)
	work := context.WithoutCancel(ctx)

	run.advance(domain.StageExtractingIntent)
	intent, err := uc.intents.Extract(work, userInput)
	if err != nil {
		return nil, run.fail(err)
	}

	run.advance(domain.StageGeocoding)
	origin, destination, err := uc.geocoder.ResolveTrip(work, intent)
	if err != nil {
		return nil, run.fail(err)
	}

	var (
		scenario     *domain.Scenario
		scenarioPath string
		binPath      string
		roadIDs      []int64
		details      []domain.RoadDetail
	)
	err = uc.withSimulationServer(ctx, func(simCtx context.Context) error {
		var err error
		scenario, scenarioPath, binPath, roadIDs, details, err = uc.simulateBaseline(simCtx, run, intent, origin, destination)
		return err
	})
	if err != nil {
		return nil, run.fail(err)
	}

	target := domain.TargetTime(scenario)
	session := &domain.Session{
		ID:              uuid.New(),
		ScenarioName:    scenario.ScenarioName,
		ScenarioFile:    scenarioPath,
		ScenarioBinPath: binPath,
		UserInput:       userInput,
		RoadIDs:         roadIDs,
		TargetTime:      target,
		CreatedAt:       uc.now().UTC(),
	}
	if err := uc.sessions.SaveSession(work, session, uc.sessionTTL); err != nil {
		return nil, run.fail(errors.ErrCacheError.WithCause(err))
	}

	result := &domain.GenerateResult{
		SessionID:       session.ID,
		ScenarioName:    scenario.ScenarioName,
		ScenarioBinPath: binPath,
		TargetTime:      target,
		Intent:          *intent,
		Origin:          origin,
		Destination:     destination,
		DistanceKm:      origin.DistanceKm(destination),
		Roads:           details,
	}

	run.advance(domain.StageDone,
		zap.String("session_id", session.ID.String()),
		zap.Int("roads", len(details)),
		zap.Duration("elapsed", time.Since(run.start)))
	return result, nil
}

// simulateBaseline выполняется под замком
func (uc *PipelineUseCase) simulateBaseline(
	ctx context.Context,
	run *runState,
	intent *domain.TripIntent,
	origin, destination domain.Coordinate,
) (*domain.Scenario, string, string, []int64, []domain.RoadDetail, error) {
	scenario := uc.scenarios.Build(intent, origin, destination)
	scenarioPath, err := uc.scenarios.Write(ctx, scenario)
	if err != nil {
		return nil, "", "", nil, nil, err
	}
	run.advance(domain.StageScenarioWritten, zap.String("path", scenarioPath))

	binPath, err := uc.scenarios.Import(ctx, scenarioPath, scenario.ScenarioName)
	if err != nil {
		return nil, "", "", nil, nil, err
	}
	run.advance(domain.StageImported, zap.String("scenario_bin_path", binPath))

	if err := uc.simulation.Load(ctx, binPath, nil); err != nil {
		return nil, "", "", nil, nil, err
	}
	run.advance(domain.StageLoaded)

	target := domain.TargetTime(scenario)
	run.advance(domain.StageTargetComputed, zap.String("target_time", target.String()))

	if err := uc.simulation.AdvanceTo(ctx, target); err != nil {
		return nil, "", "", nil, nil, err
	}
	run.advance(domain.StageSimulated)

	roadIDs, err := uc.roads.CollectUsedRoads(ctx)
	if err != nil {
		return nil, "", "", nil, nil, err
	}
	details := uc.roads.EnrichRoadDetails(ctx, roadIDs)
	run.advance(domain.StageRoadsCollected, zap.Int("road_count", len(roadIDs)))

	return scenario, scenarioPath, binPath, roadIDs, details, nil
}

// SimulateWithBlocks перезапускает сценарий сессии с перекрытыми дорогами и считает метрики.
// uuid.Nil в SessionID означает последнюю сессию
func (uc *PipelineUseCase) SimulateWithBlocks(ctx context.Context, req domain.ImpactRequest) (*domain.ImpactResult, error) {
	run := uc.startRun(domain.PipelineSimulate)
	work := context.WithoutCancel(ctx)

	session, err := uc.lookupSession(work, req.SessionID)
	if err != nil {
		return nil, run.fail(err)
	}
	run.log = run.log.With(zap.String("session_id", session.ID.String()))

	blocked := uniqueIDs(req.BlockedRoadIDs)
	if err := ValidateSelection(session.RoadIDs, blocked); err != nil {
		return nil, run.fail(err)
	}

	var (
		target  domain.SimulationTarget
		summary *domain.MetricsSummary
	)
	err = uc.withSimulationServer(ctx, func(simCtx context.Context) error {
		var err error
		target, summary, err = uc.simulateImpact(simCtx, run, session, blocked, req.ScenarioBinPath)
		return err
	})
	if err != nil {
		return nil, run.fail(err)
	}

	userInput := req.UserInput
	if userInput == "" {
		userInput = session.UserInput
	}

	result := &domain.ImpactResult{
		SessionID:      session.ID,
		BlockedRoadIDs: blocked,
		TargetTime:     target,
		Metrics:        *summary,
	}

	record := domain.NewRunRecord(
		uc.scenarios.MapIdentity().Map,
		session.ScenarioName,
		userInput,
		*summary,
		blocked,
		uc.now().UTC(),
	)
	if id, err := uc.runs.Record(work, &record); err != nil {
		run.log.Warn("Run summary not persisted", zap.Error(err))
	} else {
		result.Persisted = true
		result.RunID = id
		run.advance(domain.StagePersisted, zap.Int64("run_id", id))
	}

	run.advance(domain.StageDone, zap.Duration("elapsed", time.Since(run.start)))
	return result, nil
}

// simulateImpact выполняется под замком
func (uc *PipelineUseCase) simulateImpact(
	ctx context.Context,
	run *runState,
	session *domain.Session,
	blocked []int64,
	binOverride string,
) (domain.SimulationTarget, *domain.MetricsSummary, error) {
	var edits *domain.RoadEdits
	if len(blocked) > 0 {
		var err error
		edits, err = uc.roads.BuildClosureEdits(ctx, uc.scenarios.MapIdentity(), session.RoadIDs, blocked)
		if err != nil {
			return "", nil, err
		}
		run.advance(domain.StageEditsFetched, zap.Int64s("blocked_road_ids", blocked))
	}

	binPath := session.ScenarioBinPath
	if binOverride != "" {
		binPath = binOverride
	}
	if err := uc.simulation.Load(ctx, binPath, edits); err != nil {
		return "", nil, err
	}
	run.advance(domain.StageLoaded, zap.String("scenario_bin_path", binPath))

	scenario, err := uc.scenarios.LoadCanonical(ctx, session.ScenarioFile)
	if err != nil {
		return "", nil, err
	}
	target := domain.TargetTime(scenario)
	if target != session.TargetTime {
		run.log.Warn("Scenario file changed since generation",
			zap.String("session_target_time", session.TargetTime.String()),
			zap.String("file_target_time", target.String()))
	}
	run.advance(domain.StageTargetRecomputed, zap.String("target_time", target.String()))

	if err := uc.simulation.AdvanceTo(ctx, target); err != nil {
		return "", nil, err
	}
	run.advance(domain.StageResimulated)

	summary, err := uc.metrics.Fetch(ctx)
	if err != nil {
		return "", nil, err
	}
	run.advance(domain.StageMetricsFetched, zap.Int("num_trips", summary.NumTrips))

	return target, summary, nil
}

func (uc *PipelineUseCase) lookupSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var (
		session *domain.Session
		err     error
	)
	if id == uuid.Nil {
		session, err = uc.sessions.GetLatestSession(ctx)
	} else {
		session, err = uc.sessions.GetSession(ctx, id)
	}
	if err != nil {
		return nil, errors.ErrCacheError.WithCause(err)
	}
	if session == nil {
		return nil, errors.ErrSessionNotFound.WithDetails(map[string]interface{}{
			"session_id": id.String(),
		})
	}
	return session, nil
}

// Session возвращает сохранённую сессию, nil id - последняя
func (uc *PipelineUseCase) Session(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return uc.lookupSession(ctx, id)
}
