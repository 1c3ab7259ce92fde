// Package registry owns the active and historical workflow records. It is
// the only shared mutable structure in the core: every record mutation goes
// through a registry operation, serialized by one mutex, and exactly one
// executor drives any given record while it is active. Completion moves the
// record to history, after which it is read-only.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/artisanhub/mediaflow/pkg/models"
)

const recentWindow = 10

// CancelledError is the error text stamped on cancelled workflows.
const CancelledError = "workflow cancelled by caller"

type activeWorkflow struct {
	record *models.WorkflowRecord
	cancel context.CancelFunc
}

type Registry struct {
	logger    *slog.Logger
	maxActive int

	mu      sync.Mutex
	active  map[string]*activeWorkflow
	history []*models.WorkflowRecord
}

func New(logger *slog.Logger, maxActive int) *Registry {
	return &Registry{
		logger:    logger.With("module", "workflow_registry"),
		maxActive: maxActive,
		active:    make(map[string]*activeWorkflow),
	}
}

// Admit accepts the record if the active-count ceiling allows it, returning a
// cancellable context the executor must run under. Over-capacity requests are
// rejected, never queued.
func (r *Registry) Admit(ctx context.Context, record *models.WorkflowRecord) (context.Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.active) >= r.maxActive {
		r.logger.Warn("Admission rejected, capacity reached",
			"workflow_id", record.ID,
			"active", len(r.active),
			"max_concurrent", r.maxActive,
		)

		return nil, false
	}

	record.Status = models.WorkflowPending
	record.CreatedAt = time.Now()

	wfCtx, cancel := context.WithCancel(ctx)
	r.active[record.ID] = &activeWorkflow{record: record, cancel: cancel}

	r.logger.Info("Workflow admitted", "workflow_id", record.ID, "item_id", record.Request.ItemID)

	return wfCtx, true
}

// MarkRunning transitions an active record from pending to running.
func (r *Registry) MarkRunning(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if aw, ok := r.active[id]; ok && aw.record.Status == models.WorkflowPending {
		aw.record.Status = models.WorkflowRunning
	}
}

// SetCurrentStage records which stage is in flight; empty clears it.
func (r *Registry) SetCurrentStage(id string, stage models.StageKind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if aw, ok := r.active[id]; ok {
		aw.record.CurrentStage = stage
	}
}

// RecordStage appends one stage execution summary and clears the in-flight
// stage marker.
func (r *Registry) RecordStage(id string, summary models.StageSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if aw, ok := r.active[id]; ok {
		aw.record.Stages = append(aw.record.Stages, summary)
		aw.record.CurrentStage = ""
	}
}

// Complete atomically moves an active record to history, stamping the result
// or the failure text. It reports false when the record is no longer active —
// the cancellation path already moved it, and the caller must discard the
// late result.
func (r *Registry) Complete(id string, result *models.WorkflowResult, errText string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	aw, ok := r.active[id]
	if !ok {
		return false
	}

	now := time.Now()
	aw.record.CompletedAt = &now
	aw.record.CurrentStage = ""
	aw.record.Result = result
	aw.record.Error = errText

	if errText == "" {
		aw.record.Status = models.WorkflowCompleted
	} else {
		aw.record.Status = models.WorkflowFailed
	}

	r.moveToHistoryLocked(id, aw)

	r.logger.Info("Workflow completed", "workflow_id", id, "status", string(aw.record.Status))

	return true
}

// Cancel forces an active workflow into the terminal cancelled state and
// moves it to history. In-flight stage work is not interrupted beyond context
// cancellation; whatever it eventually returns is discarded by Complete.
// Reports false when the id is unknown or already terminal.
func (r *Registry) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	aw, ok := r.active[id]
	if !ok {
		return false
	}

	aw.cancel()

	now := time.Now()
	aw.record.Status = models.WorkflowCancelled
	aw.record.Error = CancelledError
	aw.record.CompletedAt = &now
	aw.record.CurrentStage = ""

	r.moveToHistoryLocked(id, aw)

	r.logger.Info("Workflow cancelled", "workflow_id", id)

	return true
}

func (r *Registry) moveToHistoryLocked(id string, aw *activeWorkflow) {
	aw.cancel()
	r.history = append(r.history, aw.record)
	delete(r.active, id)
}

// Lookup returns a read-only projection, checking the active set first.
func (r *Registry) Lookup(id string) (*models.WorkflowView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if aw, ok := r.active[id]; ok {
		return viewOf(aw.record, true), true
	}

	for _, record := range r.history {
		if record.ID == id {
			return viewOf(record, false), true
		}
	}

	return nil, false
}

// Result returns the compiled result of a historical workflow, if any.
func (r *Registry) Result(id string) (*models.WorkflowResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.history {
		if record.ID == id && record.Result != nil {
			return record.Result, true
		}
	}

	return nil, false
}

func viewOf(record *models.WorkflowRecord, active bool) *models.WorkflowView {
	view := &models.WorkflowView{
		WorkflowID:  record.ID,
		Status:      record.Status,
		Active:      active,
		Stages:      append([]models.StageSummary(nil), record.Stages...),
		CreatedAt:   record.CreatedAt,
		CompletedAt: record.CompletedAt,
	}

	if active {
		view.CurrentStage = record.CurrentStage
	} else {
		view.ResultAvailable = record.Result != nil
	}

	return view
}

// ActiveCount reports how many workflows are currently admitted.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.active)
}

// Snapshot assembles the system-wide status including the advisory stage-unit
// states supplied by the caller.
func (r *Registry) Snapshot(units []models.StageUnitStatus) models.SystemStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := len(r.history) - recentWindow
	if start < 0 {
		start = 0
	}

	recent := make([]models.WorkflowSummary, 0, len(r.history)-start)
	for _, record := range r.history[start:] {
		recent = append(recent, models.WorkflowSummary{
			WorkflowID:  record.ID,
			ItemID:      record.Request.ItemID,
			Status:      record.Status,
			CreatedAt:   record.CreatedAt,
			CompletedAt: record.CompletedAt,
		})
	}

	active := make([]models.WorkflowSummary, 0, len(r.active))
	for _, aw := range r.active {
		active = append(active, models.WorkflowSummary{
			WorkflowID: aw.record.ID,
			ItemID:     aw.record.Request.ItemID,
			Status:     aw.record.Status,
			CreatedAt:  aw.record.CreatedAt,
		})
	}

	return models.SystemStatus{
		ActiveWorkflows:        len(r.active),
		MaxConcurrentWorkflows: r.maxActive,
		TotalProcessed:         len(r.history),
		StageUnits:             units,
		Active:                 active,
		RecentWorkflows:        recent,
	}
}

// TrimHistory evicts the oldest records beyond keep and reports how many were
// removed. Eviction is the only way a record is ever destroyed.
func (r *Registry) TrimHistory(keep int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if keep < 0 {
		keep = 0
	}

	excess := len(r.history) - keep
	if excess <= 0 {
		return 0
	}

	r.history = append([]*models.WorkflowRecord(nil), r.history[excess:]...)

	r.logger.Info("History trimmed", "evicted", excess, "retained", len(r.history))

	return excess
}
