package stage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/artisanhub/mediaflow/pkg/models"
)

// Runner wraps a Unit with retry and exponential backoff. It yields exactly
// one terminal StageOutcome per call and never returns an error: every
// failure is a StageOutcome with Success=false.
type Runner struct {
	unit      Unit
	logger    *slog.Logger
	baseDelay time.Duration

	mu           sync.Mutex
	busy         bool
	lastActivity time.Time
}

func NewRunner(unit Unit, logger *slog.Logger, baseDelay time.Duration) *Runner {
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	return &Runner{
		unit:      unit,
		baseDelay: baseDelay,
		logger: logger.With(
			"module", "stage_runner",
			"stage", string(unit.Kind()),
		),
	}
}

func (r *Runner) Kind() models.StageKind {
	return r.unit.Kind()
}

// Status reports the advisory busy flag and last-activity timestamp. These
// feed status queries only; they take no part in concurrency control.
func (r *Runner) Status() models.StageUnitStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	return models.StageUnitStatus{
		Stage:        r.unit.Kind(),
		Busy:         r.busy,
		LastActivity: r.lastActivity,
	}
}

func (r *Runner) setBusy(busy bool) {
	r.mu.Lock()
	r.busy = busy
	r.lastActivity = time.Now()
	r.mu.Unlock()
}

// ExecuteWithRetry attempts the stage up to maxAttempts times, sleeping
// baseDelay<<attempt between failures. Elapsed on the returned outcome is
// wall-clock time since the first attempt, backoff included. Context
// cancellation aborts pending backoff sleeps and is reported as failure.
func (r *Runner) ExecuteWithRetry(ctx context.Context, pc *models.PipelineContext, maxAttempts int) models.StageOutcome {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	start := time.Now()

	r.setBusy(true)
	defer r.setBusy(false)

	var lastErr error

	for attempt := range maxAttempts {
		if err := ctx.Err(); err != nil {
			return r.failed(start, fmt.Errorf("aborted before attempt %d: %w", attempt+1, err))
		}

		r.logger.Info("Executing stage", "attempt", attempt+1, "max_attempts", maxAttempts)

		payload, err := r.unit.Process(ctx, pc)
		if err == nil {
			elapsed := time.Since(start)
			r.logger.Info("Stage completed", "attempt", attempt+1, "elapsed", elapsed)

			return models.StageOutcome{
				Stage:   r.unit.Kind(),
				Success: true,
				Elapsed: elapsed,
				Payload: payload,
			}
		}

		lastErr = err
		r.logger.Warn("Stage attempt failed", "attempt", attempt+1, "error", err)

		if attempt == maxAttempts-1 {
			break
		}

		select {
		case <-time.After(r.baseDelay << attempt):
		case <-ctx.Done():
			return r.failed(start, fmt.Errorf("aborted during backoff: %w", ctx.Err()))
		}
	}

	return r.failed(start, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr))
}

func (r *Runner) failed(start time.Time, err error) models.StageOutcome {
	elapsed := time.Since(start)
	r.logger.Error("Stage failed", "elapsed", elapsed, "error", err)

	return models.StageOutcome{
		Stage:   r.unit.Kind(),
		Success: false,
		Error:   err.Error(),
		Elapsed: elapsed,
	}
}
