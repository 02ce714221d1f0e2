package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	defaultLockTTL    = 30 * time.Second
	lockRetryInterval = 250 * time.Millisecond
	lockCallTimeout   = 5 * time.Second
)

// SimulationLock - владение сервером симуляции. Внутри процесса очередь держит семафор,
// между процессами (api, worker, tripsim) - блокировка в Redis с продлением,
// пока держатель не вызовет release
type SimulationLock struct {
	sem    *semaphore.Weighted
	locks  repository.LockRepository
	key    string
	ttl    time.Duration
	retry  time.Duration
	logger *zap.Logger
}

// NewSimulationLock - locks == nil оставляет только блокировку внутри процесса
func NewSimulationLock(locks repository.LockRepository, key string, ttl time.Duration, logger *zap.Logger) *SimulationLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &SimulationLock{
		sem:    semaphore.NewWeighted(1),
		locks:  locks,
		key:    key,
		ttl:    ttl,
		retry:  lockRetryInterval,
		logger: logger,
	}
}

// Acquire ждёт сервер, пока не закончится ctx: тогда ErrSimulationBusy.
// release идемпотентна и должна быть вызвана через defer
func (l *SimulationLock) Acquire(ctx context.Context) (release func(), err error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.ErrSimulationBusy.WithCause(err)
	}
	if l.locks == nil {
		var once sync.Once
		return func() { once.Do(func() { l.sem.Release(1) }) }, nil
	}

	token := uuid.NewString()
	if err := l.acquireShared(ctx, token); err != nil {
		l.sem.Release(1)
		return nil, err
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	go l.keepAlive(token, stop, stopped)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-stopped

			rctx, cancel := context.WithTimeout(context.Background(), lockCallTimeout)
			defer cancel()
			if _, err := l.locks.Release(rctx, l.key, token); err != nil {
				l.logger.Error("Failed to release simulation lock", zap.String("key", l.key), zap.Error(err))
			}
			l.sem.Release(1)
		})
	}, nil
}

func (l *SimulationLock) acquireShared(ctx context.Context, token string) error {
	waitStart := time.Now()
	for {
		ok, err := l.locks.TryAcquire(ctx, l.key, token, l.ttl)
		if err != nil {
			if ctx.Err() != nil {
				return errors.ErrSimulationBusy.WithCause(ctx.Err())
			}
			return errors.ErrCacheError.WithCause(err)
		}
		if ok {
			if waited := time.Since(waitStart); waited > l.retry {
				l.logger.Info("Simulation lock acquired after wait", zap.Duration("waited", waited))
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return errors.ErrSimulationBusy.WithCause(ctx.Err())
		case <-time.After(l.retry):
		}
	}
}

// keepAlive продлевает блокировку каждые ttl/3, пока идёт прогон
func (l *SimulationLock) keepAlive(token string, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), lockCallTimeout)
			ok, err := l.locks.Refresh(ctx, l.key, token, l.ttl)
			cancel()
			switch {
			case err != nil:
				l.logger.Warn("Failed to refresh simulation lock", zap.String("key", l.key), zap.Error(err))
			case !ok:
				l.logger.Error("Simulation lock lost while a run holds the server", zap.String("key", l.key))
			}
		}
	}
}
