// Package workflow contains the orchestration core: the per-workflow
// executor, the result compiler, the batch coordinator, and the Service
// facade callers interact with.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/artisanhub/mediaflow/pkg/config"
	"github.com/artisanhub/mediaflow/pkg/eventbus"
	"github.com/artisanhub/mediaflow/pkg/events"
	"github.com/artisanhub/mediaflow/pkg/models"
	"github.com/artisanhub/mediaflow/pkg/registry"
)

var (
	// ErrCapacity is returned when the concurrent-workflow ceiling is
	// reached. The request is rejected, never queued.
	ErrCapacity = errors.New("maximum concurrent workflows reached")

	// ErrCancelled is returned when a workflow was cancelled while
	// running and its result was discarded.
	ErrCancelled = errors.New(registry.CancelledError)
)

// Service is the single entry point into the orchestration core. It owns the
// registry, the executor and the batch coordinator, and validates every
// request before admission.
type Service struct {
	cfg       config.Config
	logger    *slog.Logger
	registry  *registry.Registry
	executor  *Executor
	validator *validator.Validate
	publisher eventbus.EventPublisher
}

func NewService(
	cfg config.Config,
	logger *slog.Logger,
	runners []StageRunner,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
) *Service {
	reg := registry.New(logger, cfg.MaxConcurrentWorkflows)

	return &Service{
		cfg:       cfg,
		logger:    logger.With("module", "workflow_service"),
		registry:  reg,
		executor:  NewExecutor(reg, runners, publisher, tracer, logger),
		validator: validator.New(validator.WithRequiredStructEnabled()),
		publisher: publisher,
	}
}

// Submit runs one workflow synchronously to its terminal state and returns
// the compiled result. It returns ErrCapacity when the concurrency ceiling
// is reached and ErrCancelled when the workflow was cancelled mid-run.
func (s *Service) Submit(ctx context.Context, req models.WorkflowRequest, opts *models.WorkflowOptions) (*models.WorkflowResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid workflow request: %w", err)
	}

	options := models.WorkflowOptions{}
	if opts != nil {
		if err := s.validator.Struct(opts); err != nil {
			return nil, fmt.Errorf("invalid workflow options: %w", err)
		}
		options = *opts
	}

	record := &models.WorkflowRecord{
		ID:      uuid.New().String(),
		Request: req,
		Options: options,
	}

	wfCtx, admitted := s.registry.Admit(ctx, record)
	if !admitted {
		return nil, ErrCapacity
	}

	pc := &models.PipelineContext{
		WorkflowID: record.ID,
		Request:    req,
		Options:    options,
	}

	maxAttempts := s.cfg.MaxRetriesPerStage
	if options.MaxRetries > 0 {
		maxAttempts = options.MaxRetries
	}

	result, completed := s.executor.Run(wfCtx, pc, maxAttempts)
	if !completed {
		return nil, ErrCancelled
	}

	return result, nil
}

// SubmitBatch processes the requests concurrently, bounded independently of
// the workflow admission ceiling, and compiles an order-preserving summary.
func (s *Service) SubmitBatch(ctx context.Context, requests []models.WorkflowRequest, opts *models.WorkflowOptions, maxConcurrent int) *models.BatchSummary {
	if maxConcurrent <= 0 {
		maxConcurrent = s.cfg.BatchMaxConcurrent
	}

	coordinator := NewCoordinator(s, s.logger, maxConcurrent)
	summary := coordinator.Run(ctx, requests, opts)

	if s.publisher != nil {
		event := events.BatchCompleted{
			BaseEvent: events.BaseEvent{
				ID:        uuid.New().String(),
				Type:      events.BatchCompletedEvent,
				Timestamp: time.Now(),
			},
			BatchID:     summary.BatchID,
			Total:       summary.Total,
			Succeeded:   summary.Succeeded,
			Failed:      summary.Failed,
			SuccessRate: summary.SuccessRate,
		}
		if err := s.publisher.Publish(ctx, summary.BatchID, event); err != nil {
			s.logger.Warn("Failed to publish batch event", "batch_id", summary.BatchID, "error", err)
		}
	}

	return summary
}

// Status returns the read-only projection of an active or historical
// workflow.
func (s *Service) Status(id string) (*models.WorkflowView, bool) {
	return s.registry.Lookup(id)
}

// Result returns the compiled result of a finished workflow.
func (s *Service) Result(id string) (*models.WorkflowResult, bool) {
	return s.registry.Result(id)
}

// Cancel requests cooperative cancellation of an active workflow. It reports
// false when the id is unknown or the workflow already reached a terminal
// state.
func (s *Service) Cancel(ctx context.Context, id string) bool {
	if !s.registry.Cancel(id) {
		return false
	}

	if s.publisher != nil {
		event := events.WorkflowCancelled{
			BaseEvent: events.BaseEvent{
				ID:         uuid.New().String(),
				Type:       events.WorkflowCancelledEvent,
				Timestamp:  time.Now(),
				WorkflowID: id,
			},
		}
		if err := s.publisher.Publish(ctx, id, event); err != nil {
			s.logger.Warn("Failed to publish cancellation event", "workflow_id", id, "error", err)
		}
	}

	return true
}

// SystemStatus assembles the registry snapshot plus the advisory state of
// every stage unit.
func (s *Service) SystemStatus() models.SystemStatus {
	return s.registry.Snapshot(s.executor.Statuses())
}

// TrimHistory evicts historical records beyond the configured retention.
func (s *Service) TrimHistory() int {
	return s.registry.TrimHistory(s.cfg.HistoryRetention)
}

// WorkflowTimeout exposes the per-workflow deadline for transport layers to
// apply at the boundary.
func (s *Service) WorkflowTimeout() time.Duration {
	return s.cfg.WorkflowTimeout
}
