package registry_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisanhub/mediaflow/pkg/models"
	"github.com/artisanhub/mediaflow/pkg/registry"
)

func newRecord(id string) *models.WorkflowRecord {
	return &models.WorkflowRecord{
		ID:      id,
		Request: models.WorkflowRequest{Description: "ceramic vase", ItemID: "item-" + id},
	}
}

func TestRegistry_AdmitUpToCeiling(t *testing.T) {
	t.Parallel()

	reg := registry.New(slog.Default(), 2)

	_, ok := reg.Admit(context.Background(), newRecord("a"))
	require.True(t, ok)
	_, ok = reg.Admit(context.Background(), newRecord("b"))
	require.True(t, ok)

	_, ok = reg.Admit(context.Background(), newRecord("c"))
	assert.False(t, ok)
	assert.Equal(t, 2, reg.ActiveCount())

	// Completion frees a slot.
	require.True(t, reg.Complete("a", &models.WorkflowResult{WorkflowID: "a"}, ""))

	_, ok = reg.Admit(context.Background(), newRecord("c"))
	assert.True(t, ok)
}

func TestRegistry_CompleteMovesToHistory(t *testing.T) {
	t.Parallel()

	reg := registry.New(slog.Default(), 5)

	_, ok := reg.Admit(context.Background(), newRecord("a"))
	require.True(t, ok)

	reg.MarkRunning("a")
	reg.SetCurrentStage("a", models.StagePrompt)

	view, found := reg.Lookup("a")
	require.True(t, found)
	assert.True(t, view.Active)
	assert.Equal(t, models.WorkflowRunning, view.Status)
	assert.Equal(t, models.StagePrompt, view.CurrentStage)

	result := &models.WorkflowResult{WorkflowID: "a", Success: true}
	require.True(t, reg.Complete("a", result, ""))

	assert.Equal(t, 0, reg.ActiveCount())

	view, found = reg.Lookup("a")
	require.True(t, found)
	assert.False(t, view.Active)
	assert.Equal(t, models.WorkflowCompleted, view.Status)
	assert.True(t, view.ResultAvailable)
	require.NotNil(t, view.CompletedAt)

	got, found := reg.Result("a")
	require.True(t, found)
	assert.Equal(t, result, got)
}

func TestRegistry_CompleteWithFailure(t *testing.T) {
	t.Parallel()

	reg := registry.New(slog.Default(), 5)

	_, ok := reg.Admit(context.Background(), newRecord("a"))
	require.True(t, ok)

	require.True(t, reg.Complete("a", &models.WorkflowResult{WorkflowID: "a"}, "prompt stage failed"))

	view, found := reg.Lookup("a")
	require.True(t, found)
	assert.Equal(t, models.WorkflowFailed, view.Status)
}

func TestRegistry_CancelActiveWorkflow(t *testing.T) {
	t.Parallel()

	reg := registry.New(slog.Default(), 5)

	wfCtx, ok := reg.Admit(context.Background(), newRecord("a"))
	require.True(t, ok)

	assert.True(t, reg.Cancel("a"))
	assert.Error(t, wfCtx.Err())
	assert.Equal(t, 0, reg.ActiveCount())

	view, found := reg.Lookup("a")
	require.True(t, found)
	assert.Equal(t, models.WorkflowCancelled, view.Status)
	assert.False(t, view.Active)

	// A late completion must be discarded, not resurrect the record.
	assert.False(t, reg.Complete("a", &models.WorkflowResult{WorkflowID: "a"}, ""))

	view, found = reg.Lookup("a")
	require.True(t, found)
	assert.Equal(t, models.WorkflowCancelled, view.Status)
	assert.False(t, view.ResultAvailable)
}

func TestRegistry_CancelUnknownOrFinished(t *testing.T) {
	t.Parallel()

	reg := registry.New(slog.Default(), 5)

	assert.False(t, reg.Cancel("missing"))

	_, ok := reg.Admit(context.Background(), newRecord("a"))
	require.True(t, ok)
	require.True(t, reg.Complete("a", &models.WorkflowResult{WorkflowID: "a"}, ""))

	assert.False(t, reg.Cancel("a"))
}

func TestRegistry_RecordStageClearsCurrent(t *testing.T) {
	t.Parallel()

	reg := registry.New(slog.Default(), 5)

	_, ok := reg.Admit(context.Background(), newRecord("a"))
	require.True(t, ok)

	reg.SetCurrentStage("a", models.StageImage)
	reg.RecordStage("a", models.StageSummary{Stage: models.StageImage, Status: "completed"})

	view, found := reg.Lookup("a")
	require.True(t, found)
	assert.Empty(t, view.CurrentStage)
	require.Len(t, view.Stages, 1)
	assert.Equal(t, models.StageImage, view.Stages[0].Stage)
}

func TestRegistry_SnapshotRecentWindow(t *testing.T) {
	t.Parallel()

	reg := registry.New(slog.Default(), 20)

	for i := range 15 {
		id := fmt.Sprintf("wf-%02d", i)
		_, ok := reg.Admit(context.Background(), newRecord(id))
		require.True(t, ok)
		require.True(t, reg.Complete(id, &models.WorkflowResult{WorkflowID: id}, ""))
	}

	units := []models.StageUnitStatus{{Stage: models.StagePrompt}}
	status := reg.Snapshot(units)

	assert.Equal(t, 0, status.ActiveWorkflows)
	assert.Equal(t, 20, status.MaxConcurrentWorkflows)
	assert.Equal(t, 15, status.TotalProcessed)
	assert.Equal(t, units, status.StageUnits)
	require.Len(t, status.RecentWorkflows, 10)
	assert.Equal(t, "wf-05", status.RecentWorkflows[0].WorkflowID)
	assert.Equal(t, "wf-14", status.RecentWorkflows[9].WorkflowID)
}

func TestRegistry_TrimHistory(t *testing.T) {
	t.Parallel()

	reg := registry.New(slog.Default(), 20)

	for i := range 8 {
		id := fmt.Sprintf("wf-%d", i)
		_, ok := reg.Admit(context.Background(), newRecord(id))
		require.True(t, ok)
		require.True(t, reg.Complete(id, &models.WorkflowResult{WorkflowID: id}, ""))
	}

	assert.Equal(t, 0, reg.TrimHistory(10))
	assert.Equal(t, 3, reg.TrimHistory(5))

	// Oldest records went first.
	_, found := reg.Lookup("wf-0")
	assert.False(t, found)
	_, found = reg.Lookup("wf-3")
	assert.True(t, found)

	assert.Equal(t, 5, reg.Snapshot(nil).TotalProcessed)
}
