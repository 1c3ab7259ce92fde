package workflow_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisanhub/mediaflow/pkg/models"
	"github.com/artisanhub/mediaflow/pkg/workflow"
)

func promptOutcome(success bool) models.StageOutcome {
	outcome := models.StageOutcome{
		Stage:   models.StagePrompt,
		Success: success,
		Elapsed: 100 * time.Millisecond,
	}

	if success {
		outcome.Payload = &models.StagePayload{
			Stage:   models.StagePrompt,
			Prompts: &models.PromptArtifacts{ImagePrompt: "img", VideoPrompt: "vid"},
		}
	} else {
		outcome.Error = "prompt service unavailable"
	}

	return outcome
}

func imageOutcome(success bool) models.StageOutcome {
	outcome := models.StageOutcome{
		Stage:   models.StageImage,
		Success: success,
		Elapsed: 200 * time.Millisecond,
	}

	if success {
		outcome.Payload = &models.StagePayload{
			Stage:  models.StageImage,
			Images: &models.ImageSet{Succeeded: 2},
		}
	} else {
		outcome.Error = "image service unavailable"
	}

	return outcome
}

func videoOutcome(success bool) models.StageOutcome {
	outcome := models.StageOutcome{
		Stage:   models.StageVideo,
		Success: success,
		Elapsed: 300 * time.Millisecond,
	}

	if success {
		outcome.Payload = &models.StagePayload{
			Stage: models.StageVideo,
			Video: &models.VideoCut{},
		}
	} else {
		outcome.Error = "video service unavailable"
	}

	return outcome
}

func TestCompile_AllStagesSucceeded(t *testing.T) {
	t.Parallel()

	result := workflow.Compile("wf-1", time.Now(), []models.StageOutcome{
		promptOutcome(true), imageOutcome(true), videoOutcome(true),
	})

	assert.True(t, result.Success)
	assert.False(t, result.PartialSuccess)
	assert.Equal(t, 3, result.Summary.StagesExecuted)
	assert.Equal(t, 3, result.Summary.StagesSucceeded)
	assert.Equal(t, 0, result.Summary.StagesFailed)
	assert.Equal(t, 600*time.Millisecond, result.Summary.TotalElapsed)
	assert.NotNil(t, result.Prompts)
	assert.NotNil(t, result.Images)
	assert.NotNil(t, result.Video)
	assert.Empty(t, result.Errors)
}

func TestCompile_DownstreamFailureIsPartial(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		outcomes []models.StageOutcome
		errCount int
	}{
		{
			name:     "image failed",
			outcomes: []models.StageOutcome{promptOutcome(true), imageOutcome(false), videoOutcome(true)},
			errCount: 1,
		},
		{
			name:     "video failed",
			outcomes: []models.StageOutcome{promptOutcome(true), imageOutcome(true), videoOutcome(false)},
			errCount: 1,
		},
		{
			name:     "both downstream failed",
			outcomes: []models.StageOutcome{promptOutcome(true), imageOutcome(false), videoOutcome(false)},
			errCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := workflow.Compile("wf-1", time.Now(), tt.outcomes)

			assert.False(t, result.Success)
			assert.True(t, result.PartialSuccess)
			assert.NotNil(t, result.Prompts)
			assert.Len(t, result.Errors, tt.errCount)
		})
	}
}

func TestCompile_PromptFailureIsHard(t *testing.T) {
	t.Parallel()

	result := workflow.Compile("wf-1", time.Now(), []models.StageOutcome{promptOutcome(false)})

	assert.False(t, result.Success)
	assert.False(t, result.PartialSuccess)
	assert.Equal(t, 1, result.Summary.StagesExecuted)
	assert.Equal(t, 1, result.Summary.StagesFailed)
	assert.Nil(t, result.Prompts)
	assert.Nil(t, result.Images)
	assert.Nil(t, result.Video)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "prompt generation:")
}

func TestCompile_Idempotent(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	outcomes := []models.StageOutcome{promptOutcome(true), imageOutcome(false), videoOutcome(true)}

	first, err := json.Marshal(workflow.Compile("wf-1", at, outcomes))
	require.NoError(t, err)

	second, err := json.Marshal(workflow.Compile("wf-1", at, outcomes))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompile_NoOutcomes(t *testing.T) {
	t.Parallel()

	result := workflow.Compile("wf-1", time.Now(), nil)

	assert.False(t, result.Success)
	assert.False(t, result.PartialSuccess)
	assert.Equal(t, 0, result.Summary.StagesExecuted)
	assert.Empty(t, result.Errors)
}
