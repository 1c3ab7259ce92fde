package prompt_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisanhub/mediaflow/pkg/generation"
	"github.com/artisanhub/mediaflow/pkg/models"
	"github.com/artisanhub/mediaflow/pkg/stages/prompt"
)

type staticPromptService struct {
	artifacts *models.PromptArtifacts
	err       error
}

func (s *staticPromptService) GeneratePrompts(_ context.Context, _ generation.PromptRequest) (*models.PromptArtifacts, error) {
	return s.artifacts, s.err
}

func TestPromptStage_ProducesArtifacts(t *testing.T) {
	t.Parallel()

	stage := prompt.New(generation.NewSimulator(), slog.Default())

	pc := &models.PipelineContext{
		Request: models.WorkflowRequest{Description: "ceramic vase", ItemID: "item-1"},
	}

	payload, err := stage.Process(context.Background(), pc)
	require.NoError(t, err)

	assert.Equal(t, models.StagePrompt, stage.Kind())
	assert.Equal(t, models.StagePrompt, payload.Stage)
	require.NotNil(t, payload.Prompts)
	assert.Contains(t, payload.Prompts.ImagePrompt, "ceramic vase")
	assert.NotEmpty(t, payload.Prompts.VideoPrompt)
	assert.NotEmpty(t, payload.Prompts.SceneBreakdown)
}

func TestPromptStage_ServiceErrorIsWrapped(t *testing.T) {
	t.Parallel()

	stage := prompt.New(&staticPromptService{err: errors.New("model overloaded")}, slog.Default())

	_, err := stage.Process(context.Background(), &models.PipelineContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt synthesis:")
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestPromptStage_RejectsUnusableArtifacts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		artifacts *models.PromptArtifacts
	}{
		{name: "nil artifacts", artifacts: nil},
		{name: "missing image prompt", artifacts: &models.PromptArtifacts{VideoPrompt: "v"}},
		{name: "missing video prompt", artifacts: &models.PromptArtifacts{ImagePrompt: "i"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stage := prompt.New(&staticPromptService{artifacts: tt.artifacts}, slog.Default())

			_, err := stage.Process(context.Background(), &models.PipelineContext{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unusable artifacts")
		})
	}
}
