package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artisanhub/mediaflow/pkg/models"
)

// Submitter runs a single workflow end to end. It is the surface the
// batch coordinator fans out over.
type Submitter interface {
	Submit(ctx context.Context, req models.WorkflowRequest, opts *models.WorkflowOptions) (*models.WorkflowResult, error)
}

// Coordinator fans a batch of workflow requests out over a Submitter,
// bounding in-flight workflows with a semaphore. Results keep the
// order of the input slice regardless of completion order.
type Coordinator struct {
	submitter     Submitter
	logger        *slog.Logger
	maxConcurrent int
}

func NewCoordinator(submitter Submitter, logger *slog.Logger, maxConcurrent int) *Coordinator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &Coordinator{
		submitter:     submitter,
		logger:        logger.With("module", "batch"),
		maxConcurrent: maxConcurrent,
	}
}

// Run executes every request in the batch and compiles a summary. One
// item failing, or even panicking, never takes down its siblings.
func (c *Coordinator) Run(ctx context.Context, requests []models.WorkflowRequest, opts *models.WorkflowOptions) *models.BatchSummary {
	batchID := uuid.New().String()
	started := time.Now().UTC()

	c.logger.InfoContext(ctx, "Starting batch", "batch_id", batchID, "items", len(requests), "max_concurrent", c.maxConcurrent)

	results := make([]*models.WorkflowResult, len(requests))
	errs := make([]error, len(requests))

	sem := make(chan struct{}, c.maxConcurrent)

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)

		go func(idx int, request models.WorkflowRequest) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[idx] = fmt.Errorf("workflow panicked: %v", r)
				}
			}()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx], errs[idx] = c.submitter.Submit(ctx, request, opts)
		}(i, req)
	}
	wg.Wait()

	summary := &models.BatchSummary{
		BatchID:   batchID,
		Timestamp: started,
		Total:     len(requests),
	}

	for i := range requests {
		switch {
		case errs[i] != nil:
			summary.Failures = append(summary.Failures, models.BatchFailure{
				ItemID: requests[i].ItemID,
				Error:  errs[i].Error(),
			})
		case results[i] != nil && results[i].Usable():
			summary.Results = append(summary.Results, results[i])
		default:
			reason := "workflow produced no usable output"
			if results[i] != nil && len(results[i].Errors) > 0 {
				reason = strings.Join(results[i].Errors, "; ")
			}
			summary.Failures = append(summary.Failures, models.BatchFailure{
				ItemID: requests[i].ItemID,
				Error:  reason,
			})
		}
	}

	summary.Succeeded = len(summary.Results)
	summary.Failed = len(summary.Failures)
	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Succeeded) / float64(summary.Total) * 100
	}
	summary.Elapsed = time.Since(started)

	c.logger.InfoContext(ctx, "Batch finished",
		"batch_id", batchID,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"success_rate", summary.SuccessRate)

	return summary
}
