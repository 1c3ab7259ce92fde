// Package image implements the image-synthesis stage. Partial output is
// acceptable: the stage succeeds as long as at least one image was produced
// and stored.
package image

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/artisanhub/mediaflow/pkg/generation"
	"github.com/artisanhub/mediaflow/pkg/mediastore"
	"github.com/artisanhub/mediaflow/pkg/models"
)

const (
	defaultQuality = "high"
	defaultFormat  = "png"
)

var errNoImagePrompt = errors.New("no image prompt available")

type Stage struct {
	service      generation.ImageService
	store        mediastore.Store
	logger       *slog.Logger
	defaultCount int
	maxCount     int
}

func New(service generation.ImageService, store mediastore.Store, logger *slog.Logger, defaultCount, maxCount int) *Stage {
	return &Stage{
		service:      service,
		store:        store,
		defaultCount: defaultCount,
		maxCount:     maxCount,
		logger:       logger.With("module", "image_stage"),
	}
}

func (s *Stage) Kind() models.StageKind {
	return models.StageImage
}

func (s *Stage) Process(ctx context.Context, pc *models.PipelineContext) (*models.StagePayload, error) {
	if pc.Prompts == nil || pc.Prompts.ImagePrompt == "" {
		return nil, errNoImagePrompt
	}

	count := pc.Options.ImageCount
	if count <= 0 {
		count = s.defaultCount
	}
	if count > s.maxCount {
		count = s.maxCount
	}

	s.logger.Info("Generating images", "item_id", pc.Request.ItemID, "count", count)

	raws, err := s.service.GenerateImages(ctx, generation.ImageRequest{
		Prompt:          pc.Prompts.ImagePrompt,
		StyleGuidelines: pc.Prompts.StyleGuidelines,
		Count:           count,
	})
	if err != nil {
		return nil, fmt.Errorf("image synthesis: %w", err)
	}

	var (
		images   []models.GeneratedImage
		failures []string
	)

	for i, raw := range raws {
		ref, putErr := s.store.Put(ctx, raw.Data, mediastore.Metadata{
			Filename:    fmt.Sprintf("%s_image_%d.%s", pc.Request.ItemID, i+1, defaultFormat),
			ContentType: "image/" + defaultFormat,
		})
		if putErr != nil {
			s.logger.Warn("Failed to store image", "index", i+1, "error", putErr)
			failures = append(failures, fmt.Sprintf("image %d: %s", i+1, putErr))

			continue
		}

		images = append(images, models.GeneratedImage{
			URL:         ref.PublicURL,
			StoragePath: ref.StoragePath,
			PromptUsed:  raw.PromptUsed,
			Params:      raw.Params,
		})
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("no images produced: %s", strings.Join(failures, "; "))
	}

	return &models.StagePayload{
		Stage: models.StageImage,
		Images: &models.ImageSet{
			Images:    images,
			Succeeded: len(images),
			Failed:    len(failures),
			Failures:  failures,
			Settings: models.ImageSettings{
				Count:   count,
				Quality: defaultQuality,
				Format:  defaultFormat,
			},
		},
	}, nil
}
