package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow run.
type WorkflowStatus string

const (
	WorkflowPending   WorkflowStatus = "pending"
	WorkflowRunning   WorkflowStatus = "running"
	WorkflowCompleted WorkflowStatus = "completed"
	WorkflowFailed    WorkflowStatus = "failed"
	WorkflowCancelled WorkflowStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s WorkflowStatus) Terminal() bool {
	return s == WorkflowCompleted || s == WorkflowFailed || s == WorkflowCancelled
}

// StageSummary is the per-stage execution record kept on the workflow.
type StageSummary struct {
	Stage   StageKind     `json:"stage"`
	Status  string        `json:"status"` // "completed" or "failed"
	Elapsed time.Duration `json:"elapsed"`
	Error   string        `json:"error,omitempty"`
}

// WorkflowRecord is the mutable state of one workflow run. While active it is
// owned by the registry and mutated only through registry operations by the
// single executor that admitted it; once moved to history it is read-only.
type WorkflowRecord struct {
	ID           string          `json:"id"`
	Request      WorkflowRequest `json:"request"`
	Options      WorkflowOptions `json:"options"`
	Status       WorkflowStatus  `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	CurrentStage StageKind       `json:"current_stage,omitempty"`
	Stages       []StageSummary  `json:"stages"`
	Result       *WorkflowResult `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// WorkflowView is the read-only status projection returned by lookups. Active
// workflows expose the stage currently in flight; historical ones expose
// whether a compiled result is available.
type WorkflowView struct {
	WorkflowID      string         `json:"workflow_id"`
	Status          WorkflowStatus `json:"status"`
	Active          bool           `json:"active"`
	CurrentStage    StageKind      `json:"current_stage,omitempty"`
	Stages          []StageSummary `json:"stages"`
	CreatedAt       time.Time      `json:"created_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	ResultAvailable bool           `json:"result_available"`
}

// WorkflowSummary is the compact history entry exposed by system status.
type WorkflowSummary struct {
	WorkflowID  string         `json:"workflow_id"`
	ItemID      string         `json:"item_id"`
	Status      WorkflowStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// StageUnitStatus is the advisory busy/idle view of one stage unit.
type StageUnitStatus struct {
	Stage        StageKind `json:"stage"`
	Busy         bool      `json:"busy"`
	LastActivity time.Time `json:"last_activity"`
}

// SystemStatus is the registry-wide snapshot.
type SystemStatus struct {
	ActiveWorkflows        int               `json:"active_workflows"`
	MaxConcurrentWorkflows int               `json:"max_concurrent_workflows"`
	TotalProcessed         int               `json:"total_processed"`
	StageUnits             []StageUnitStatus `json:"stage_units"`
	Active                 []WorkflowSummary `json:"active,omitempty"`
	RecentWorkflows        []WorkflowSummary `json:"recent_workflows"`
}
