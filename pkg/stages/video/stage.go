// Package video implements the video-synthesis stage. It degrades gracefully
// when the image stage produced nothing, falling back to the caller's
// reference image; with zero sources from both it refuses to run.
package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/artisanhub/mediaflow/pkg/generation"
	"github.com/artisanhub/mediaflow/pkg/mediastore"
	"github.com/artisanhub/mediaflow/pkg/models"
)

const (
	defaultResolution = "1920x1080"
	defaultFormat     = "mp4"
)

var (
	errNoVideoPrompt = errors.New("no video prompt available")
	// ErrNoSourceMedia marks the image-less workflow state the stage refuses.
	ErrNoSourceMedia = errors.New("no source media available for video synthesis")
)

type Stage struct {
	service         generation.VideoService
	store           mediastore.Store
	logger          *slog.Logger
	defaultDuration float64
}

func New(service generation.VideoService, store mediastore.Store, logger *slog.Logger, defaultDuration float64) *Stage {
	return &Stage{
		service:         service,
		store:           store,
		defaultDuration: defaultDuration,
		logger:          logger.With("module", "video_stage"),
	}
}

func (s *Stage) Kind() models.StageKind {
	return models.StageVideo
}

func (s *Stage) Process(ctx context.Context, pc *models.PipelineContext) (*models.StagePayload, error) {
	if pc.Prompts == nil || pc.Prompts.VideoPrompt == "" {
		return nil, errNoVideoPrompt
	}

	sources := pc.SourceImageURLs()
	if len(sources) == 0 {
		return nil, ErrNoSourceMedia
	}

	duration := pc.Options.VideoDuration
	if duration <= 0 {
		duration = s.defaultDuration
	}

	s.logger.Info("Generating video", "item_id", pc.Request.ItemID, "sources", len(sources), "duration", duration)

	raw, err := s.service.GenerateVideo(ctx, generation.VideoRequest{
		Prompt:       pc.Prompts.VideoPrompt,
		SourceImages: sources,
		ScenePlan:    pc.Prompts.SceneBreakdown,
		Duration:     duration,
	})
	if err != nil {
		return nil, fmt.Errorf("video synthesis: %w", err)
	}

	ref, err := s.store.Put(ctx, raw.Data, mediastore.Metadata{
		Filename:    fmt.Sprintf("%s_video.%s", pc.Request.ItemID, defaultFormat),
		ContentType: "video/" + defaultFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store video: %w", err)
	}

	sceneCount := len(pc.Prompts.SceneBreakdown)
	if sceneCount == 0 {
		sceneCount = len(sources)
	}

	return &models.StagePayload{
		Stage: models.StageVideo,
		Video: &models.VideoCut{
			Video: models.GeneratedVideo{
				URL:          ref.PublicURL,
				StoragePath:  ref.StoragePath,
				Duration:     raw.Duration,
				SourceImages: raw.SourceImages,
				PromptUsed:   pc.Prompts.VideoPrompt,
			},
			Details: models.VideoDetails{
				Duration:   raw.Duration,
				Resolution: defaultResolution,
				Format:     defaultFormat,
				FileSize:   len(raw.Data),
				SceneCount: sceneCount,
			},
		},
	}, nil
}
