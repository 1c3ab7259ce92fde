package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/artisanhub/mediaflow/pkg/eventbus"
	"github.com/artisanhub/mediaflow/pkg/events"
	"github.com/artisanhub/mediaflow/pkg/models"
	"github.com/artisanhub/mediaflow/pkg/otelhelper"
	"github.com/artisanhub/mediaflow/pkg/registry"
)

// StageRunner is the retry-wrapped stage contract the executor drives.
type StageRunner interface {
	Kind() models.StageKind
	Status() models.StageUnitStatus
	ExecuteWithRetry(ctx context.Context, pc *models.PipelineContext, maxAttempts int) models.StageOutcome
}

// Executor is the per-workflow state machine. It drives an admitted record
// through the stages in fixed order, accumulating context between them, and
// records every transition through the registry.
type Executor struct {
	registry  *registry.Registry
	runners   map[models.StageKind]StageRunner
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewExecutor(
	reg *registry.Registry,
	runners []StageRunner,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Executor {
	byKind := make(map[models.StageKind]StageRunner, len(runners))
	for _, runner := range runners {
		byKind[runner.Kind()] = runner
	}

	return &Executor{
		registry:  reg,
		runners:   byKind,
		publisher: publisher,
		tracer:    tracer,
		logger:    logger.With("module", "workflow_executor"),
	}
}

// Run executes one admitted workflow to its terminal state. It returns the
// compiled result and whether completion was recorded; false means the
// workflow was cancelled while running and the result was discarded.
func (e *Executor) Run(ctx context.Context, pc *models.PipelineContext, maxRetries int) (*models.WorkflowResult, bool) {
	id := pc.WorkflowID
	logger := e.logger.With("workflow_id", id, "item_id", pc.Request.ItemID)
	start := time.Now()

	e.registry.MarkRunning(id)

	logger.Info("Starting workflow execution")
	e.publish(ctx, id, events.WorkflowStarted{
		BaseEvent: e.baseEvent(events.WorkflowStartedEvent, id),
		ItemID:    pc.Request.ItemID,
		UserID:    pc.Request.UserID,
	})

	outcomes := make([]models.StageOutcome, 0, len(models.PipelineStages))

	for _, kind := range models.PipelineStages {
		outcome := e.runStage(ctx, logger, kind, pc, maxRetries)
		outcomes = append(outcomes, outcome)

		if outcome.Success {
			pc.Apply(outcome.Payload)

			continue
		}

		// Prompt output is a hard dependency for both downstream stages:
		// its failure terminates the workflow without attempting them.
		if kind == models.StagePrompt {
			result := Compile(id, time.Now(), outcomes)

			if !e.registry.Complete(id, result, "prompt stage failed: "+outcome.Error) {
				logger.Warn("Discarding result of cancelled workflow")

				return nil, false
			}

			e.publish(ctx, id, events.WorkflowFailed{
				BaseEvent: e.baseEvent(events.WorkflowFailedEvent, id),
				Error:     outcome.Error,
				Duration:  time.Since(start),
			})

			return result, true
		}
	}

	result := Compile(id, time.Now(), outcomes)

	if !e.registry.Complete(id, result, "") {
		logger.Warn("Discarding result of cancelled workflow")

		return nil, false
	}

	logger.Info("Workflow execution finished",
		"success", result.Success,
		"partial_success", result.PartialSuccess,
		"stages_succeeded", result.Summary.StagesSucceeded,
	)
	e.publish(ctx, id, events.WorkflowCompleted{
		BaseEvent:      e.baseEvent(events.WorkflowCompletedEvent, id),
		Success:        result.Success,
		PartialSuccess: result.PartialSuccess,
		Duration:       time.Since(start),
	})

	return result, true
}

func (e *Executor) runStage(ctx context.Context, logger *slog.Logger, kind models.StageKind, pc *models.PipelineContext, maxRetries int) models.StageOutcome {
	runner, ok := e.runners[kind]
	if !ok {
		return models.StageOutcome{
			Stage: kind,
			Error: "no runner registered for stage " + string(kind),
		}
	}

	e.registry.SetCurrentStage(pc.WorkflowID, kind)
	e.publish(ctx, pc.WorkflowID, events.StageStarted{
		BaseEvent: e.baseEvent(events.StageStartedEvent, pc.WorkflowID),
		Stage:     kind,
	})

	stageCtx := ctx

	var span trace.Span
	if e.tracer != nil {
		stageCtx, span = otelhelper.StartSpan(ctx, e.tracer, "stage."+string(kind),
			attribute.String(otelhelper.WorkflowIDKey, pc.WorkflowID),
			attribute.String(otelhelper.StageKey, string(kind)),
		)
	}

	outcome := runner.ExecuteWithRetry(stageCtx, pc, maxRetries)

	if span != nil {
		if !outcome.Success {
			otelhelper.SetError(span, errors.New(outcome.Error))
		}

		span.End()
	}

	summary := models.StageSummary{
		Stage:   kind,
		Status:  "completed",
		Elapsed: outcome.Elapsed,
	}
	if !outcome.Success {
		summary.Status = "failed"
		summary.Error = outcome.Error
	}

	e.registry.RecordStage(pc.WorkflowID, summary)

	logger.Info("Stage finished", "stage", string(kind), "success", outcome.Success, "elapsed", outcome.Elapsed)
	e.publish(ctx, pc.WorkflowID, events.StageFinished{
		BaseEvent: e.baseEvent(events.StageFinishedEvent, pc.WorkflowID),
		Stage:     kind,
		Success:   outcome.Success,
		Elapsed:   outcome.Elapsed,
		Error:     outcome.Error,
	})

	return outcome
}

// Statuses reports the advisory busy/idle state of every runner in pipeline
// order.
func (e *Executor) Statuses() []models.StageUnitStatus {
	statuses := make([]models.StageUnitStatus, 0, len(models.PipelineStages))

	for _, kind := range models.PipelineStages {
		if runner, ok := e.runners[kind]; ok {
			statuses = append(statuses, runner.Status())
		}
	}

	return statuses
}

func (e *Executor) baseEvent(eventType events.EventType, workflowID string) events.BaseEvent {
	return events.BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now(),
		WorkflowID: workflowID,
	}
}

// publish is best-effort: event delivery never affects workflow outcome.
func (e *Executor) publish(ctx context.Context, key string, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(ctx, key, event); err != nil {
		e.logger.Warn("Failed to publish event", "event_type", string(event.GetType()), "error", err)
	}
}
