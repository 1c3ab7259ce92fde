package video_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisanhub/mediaflow/pkg/generation"
	"github.com/artisanhub/mediaflow/pkg/mediastore"
	"github.com/artisanhub/mediaflow/pkg/models"
	"github.com/artisanhub/mediaflow/pkg/stages/video"
)

func pipelineWithImages() *models.PipelineContext {
	return &models.PipelineContext{
		Request: models.WorkflowRequest{Description: "ceramic vase", ItemID: "item-1"},
		Prompts: &models.PromptArtifacts{
			ImagePrompt: "studio photograph",
			VideoPrompt: "slow pan across ceramic vase",
			SceneBreakdown: []models.Scene{
				{Description: "reveal", Seconds: 5},
				{Description: "close-up", Seconds: 5},
			},
		},
		Images: &models.ImageSet{
			Images: []models.GeneratedImage{
				{URL: "mem://media/a.png"},
				{URL: "mem://media/b.png"},
			},
			Succeeded: 2,
		},
	}
}

func TestVideoStage_GeneratesFromImages(t *testing.T) {
	t.Parallel()

	store := mediastore.NewMemoryStore()
	stage := video.New(generation.NewSimulator(), store, slog.Default(), 15)

	payload, err := stage.Process(context.Background(), pipelineWithImages())
	require.NoError(t, err)

	assert.Equal(t, models.StageVideo, stage.Kind())
	require.NotNil(t, payload.Video)
	assert.Equal(t, []string{"mem://media/a.png", "mem://media/b.png"}, payload.Video.Video.SourceImages)
	assert.InEpsilon(t, 15.0, payload.Video.Details.Duration, 0.001)
	assert.Equal(t, "1920x1080", payload.Video.Details.Resolution)
	assert.Equal(t, "mp4", payload.Video.Details.Format)
	assert.Equal(t, 2, payload.Video.Details.SceneCount)
	assert.Equal(t, 1, store.Len())
}

func TestVideoStage_DurationOverride(t *testing.T) {
	t.Parallel()

	stage := video.New(generation.NewSimulator(), mediastore.NewMemoryStore(), slog.Default(), 15)

	pc := pipelineWithImages()
	pc.Options.VideoDuration = 30

	payload, err := stage.Process(context.Background(), pc)
	require.NoError(t, err)

	assert.InEpsilon(t, 30.0, payload.Video.Details.Duration, 0.001)
}

func TestVideoStage_FallsBackToReferenceImage(t *testing.T) {
	t.Parallel()

	stage := video.New(generation.NewSimulator(), mediastore.NewMemoryStore(), slog.Default(), 15)

	pc := pipelineWithImages()
	pc.Images = nil
	pc.Request.ReferenceImageURL = "https://example.com/reference.png"

	payload, err := stage.Process(context.Background(), pc)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/reference.png"}, payload.Video.Video.SourceImages)
}

func TestVideoStage_RefusesWithoutSources(t *testing.T) {
	t.Parallel()

	stage := video.New(generation.NewSimulator(), mediastore.NewMemoryStore(), slog.Default(), 15)

	pc := pipelineWithImages()
	pc.Images = nil

	_, err := stage.Process(context.Background(), pc)
	require.Error(t, err)
	assert.ErrorIs(t, err, video.ErrNoSourceMedia)
}

func TestVideoStage_RequiresVideoPrompt(t *testing.T) {
	t.Parallel()

	stage := video.New(generation.NewSimulator(), mediastore.NewMemoryStore(), slog.Default(), 15)

	_, err := stage.Process(context.Background(), &models.PipelineContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no video prompt")
}

func TestVideoStage_ServiceFailure(t *testing.T) {
	t.Parallel()

	simulator := generation.NewSimulator()
	simulator.FailNext(models.StageVideo, 1)

	stage := video.New(simulator, mediastore.NewMemoryStore(), slog.Default(), 15)

	_, err := stage.Process(context.Background(), pipelineWithImages())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "video synthesis:")
}
