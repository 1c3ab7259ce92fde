// Package prompt implements the prompt-synthesis stage, the hard dependency
// of the pipeline: both downstream stages consume its artifacts.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/artisanhub/mediaflow/pkg/generation"
	"github.com/artisanhub/mediaflow/pkg/models"
)

var errUnusableArtifacts = errors.New("prompt service returned unusable artifacts")

type Stage struct {
	service generation.PromptService
	logger  *slog.Logger
}

func New(service generation.PromptService, logger *slog.Logger) *Stage {
	return &Stage{
		service: service,
		logger:  logger.With("module", "prompt_stage"),
	}
}

func (s *Stage) Kind() models.StageKind {
	return models.StagePrompt
}

func (s *Stage) Process(ctx context.Context, pc *models.PipelineContext) (*models.StagePayload, error) {
	s.logger.Info("Generating prompts", "item_id", pc.Request.ItemID)

	artifacts, err := s.service.GeneratePrompts(ctx, generation.PromptRequest{
		Description:       pc.Request.Description,
		ReferenceImageURL: pc.Request.ReferenceImageURL,
		Context:           pc.Request.Context,
	})
	if err != nil {
		return nil, fmt.Errorf("prompt synthesis: %w", err)
	}

	if artifacts == nil || artifacts.ImagePrompt == "" || artifacts.VideoPrompt == "" {
		return nil, errUnusableArtifacts
	}

	return &models.StagePayload{
		Stage:   models.StagePrompt,
		Prompts: artifacts,
	}, nil
}
