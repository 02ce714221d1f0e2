package repository

import (
	"context"
	"time"
)

// LockRepository - блокировка с истечением, общая для всех процессов сервиса.
// Продлить и снять блокировку может только владелец token
type LockRepository interface {
	// TryAcquire не ждёт: false, если блокировку держит другой владелец
	TryAcquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	// Refresh продлевает блокировку, false - блокировка истекла или перехвачена
	Refresh(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) (bool, error)
}
