package cmd

import (
	"log/slog"

	"github.com/artisanhub/mediaflow/pkg/config"
	"github.com/artisanhub/mediaflow/pkg/generation"
	"github.com/artisanhub/mediaflow/pkg/mediastore"
	"github.com/artisanhub/mediaflow/pkg/stage"
	"github.com/artisanhub/mediaflow/pkg/stages/image"
	"github.com/artisanhub/mediaflow/pkg/stages/prompt"
	"github.com/artisanhub/mediaflow/pkg/stages/video"
	"github.com/artisanhub/mediaflow/pkg/workflow"
)

// GenerationServices bundles the per-stage synthesis backends.
type GenerationServices struct {
	Prompt generation.PromptService
	Image  generation.ImageService
	Video  generation.VideoService
}

// NewStageRunners wires the three pipeline stages, each wrapped in the retry
// harness, in execution order.
func NewStageRunners(cfg config.Config, services GenerationServices, store mediastore.Store, logger *slog.Logger) []workflow.StageRunner {
	return []workflow.StageRunner{
		stage.NewRunner(prompt.New(services.Prompt, logger), logger, cfg.RetryBaseDelay),
		stage.NewRunner(image.New(services.Image, store, logger, cfg.ImageCount, cfg.ImageCountMax), logger, cfg.RetryBaseDelay),
		stage.NewRunner(video.New(services.Video, store, logger, cfg.VideoDuration.Seconds()), logger, cfg.RetryBaseDelay),
	}
}
