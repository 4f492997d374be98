package payroll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/bsm/redislock"
	"go.uber.org/zap"
)

// RunLock serialises runs that touch the same period across instances.
type RunLock interface {
	Acquire(ctx context.Context, year, month int) (release func(), err error)
}

type redisRunLock struct {
	client *redislock.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisRunLock(client *redislock.Client, ttl time.Duration, logger ...*zap.Logger) RunLock {
	l := zap.L().Named("payroll.lock")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.lock")
	}
	return &redisRunLock{client: client, ttl: ttl, logger: l}
}

func RunLockKey(year, month int) string {
	return fmt.Sprintf("lock:payroll:%04d-%02d", year, month)
}

func (l *redisRunLock) Acquire(ctx context.Context, year, month int) (func(), error) {
	key := RunLockKey(year, month)
	lock, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, payrollerrors.ErrRunInProgress
	}
	if err != nil {
		return nil, err
	}
	stop := keepAlive(lock, l.ttl, l.ttl/3, l.logger.With(zap.String("key", key)))
	return func() {
		stop()
		// Background so a cancelled request still frees the lock.
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("release payroll lock failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

type refresher interface {
	Refresh(ctx context.Context, ttl time.Duration, opt *redislock.Options) error
}

// keepAlive extends the lock every interval until stop is called, so a run
// longer than ttl keeps the period to itself.
func keepAlive(lock refresher, ttl, interval time.Duration, logger *zap.Logger) (stop func()) {
	if interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := lock.Refresh(context.Background(), ttl, nil); err != nil {
					logger.Error("refresh payroll lock failed", zap.Error(err))
					if errors.Is(err, redislock.ErrNotObtained) {
						return
					}
				}
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-finished
		})
	}
}
