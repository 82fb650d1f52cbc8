package mutation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/study-upc/studyclient/internal/logging"
)

// DefaultBackgroundTimeout bounds a background task whose caller gave no
// deadline.
const DefaultBackgroundTimeout = 10 * time.Second

// Tasks runs best-effort work that nobody waits for, such as telling the
// backend about a logout. Errors are logged and never returned. Wait exists
// so the process can let pending tasks finish on shutdown.
type Tasks struct {
	logger  logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewTasks(logger logging.Logger, timeout time.Duration) *Tasks {
	if logger == nil {
		logger = logging.Nop{}
	}
	if timeout <= 0 {
		timeout = DefaultBackgroundTimeout
	}
	return &Tasks{logger: logger, timeout: timeout}
}

// Go starts fn in its own goroutine. The task keeps the values of ctx but not
// its cancellation.
func (t *Tasks) Go(ctx context.Context, name string, fn func(ctx context.Context) error) <-chan struct{} {
	done := make(chan struct{})
	t.wg.Add(1)

	go func() {
		defer t.wg.Done()
		defer close(done)

		tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
		defer cancel()

		if err := runTask(tctx, fn); err != nil {
			t.logger.Warn(tctx, "background task failed", "task", name, "error", err)
			return
		}
		t.logger.Debug(tctx, "background task finished", "task", name)
	}()

	return done
}

// Wait blocks until every started task has returned.
func (t *Tasks) Wait() {
	t.wg.Wait()
}

func runTask(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(ctx)
}

// Background is Tasks.Go on a throwaway Tasks value.
func Background(ctx context.Context, logger logging.Logger, name string, fn func(ctx context.Context) error) <-chan struct{} {
	return NewTasks(logger, 0).Go(ctx, name, fn)
}
