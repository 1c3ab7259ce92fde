package models

import "time"

// ExecutionSummary aggregates timing and stage counts across a workflow run.
type ExecutionSummary struct {
	TotalElapsed    time.Duration `json:"total_elapsed"`
	StagesExecuted  int           `json:"stages_executed"`
	StagesSucceeded int           `json:"stages_succeeded"`
	StagesFailed    int           `json:"stages_failed"`
}

// WorkflowResult is the compiled terminal output of one workflow. Per-stage
// sections are present only when that stage succeeded; an absent section means
// "not produced", never "empty".
type WorkflowResult struct {
	WorkflowID     string           `json:"workflow_id"`
	Success        bool             `json:"success"`
	PartialSuccess bool             `json:"partial_success"`
	Timestamp      time.Time        `json:"timestamp"`
	Summary        ExecutionSummary `json:"execution_summary"`
	Prompts        *PromptArtifacts `json:"prompts,omitempty"`
	Images         *ImageSet        `json:"images,omitempty"`
	Video          *VideoCut        `json:"video,omitempty"`
	Errors         []string         `json:"errors,omitempty"`
}

// Usable reports whether the run produced anything a caller can work with.
func (r *WorkflowResult) Usable() bool {
	return r != nil && (r.Success || r.PartialSuccess)
}

// BatchFailure ties a failed batch item back to its original identity.
type BatchFailure struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

// BatchSummary is the aggregate outcome of one batch call. Results and
// Failures preserve submission order regardless of completion order.
type BatchSummary struct {
	BatchID     string            `json:"batch_id"`
	Total       int               `json:"total"`
	Succeeded   int               `json:"succeeded"`
	Failed      int               `json:"failed"`
	SuccessRate float64           `json:"success_rate"`
	Results     []*WorkflowResult `json:"results"`
	Failures    []BatchFailure    `json:"failures"`
	Elapsed     time.Duration     `json:"elapsed"`
	Timestamp   time.Time         `json:"timestamp"`
}
