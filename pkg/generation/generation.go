// Package generation defines the boundary contracts for the external
// generative-model services the pipeline stages call. Implementations live
// outside the orchestration core; the simulator in this package is the
// development and test backend.
package generation

import (
	"context"

	"github.com/artisanhub/mediaflow/pkg/models"
)

// PromptRequest is the input for prompt synthesis.
type PromptRequest struct {
	Description       string
	ReferenceImageURL string
	Context           map[string]any
}

// PromptService produces the prompt artifacts both downstream stages depend
// on. Any error, including unusable content, is a total prompt-stage failure.
type PromptService interface {
	GeneratePrompts(ctx context.Context, req PromptRequest) (*models.PromptArtifacts, error)
}

// ImageRequest is the input for image synthesis.
type ImageRequest struct {
	Prompt          string
	StyleGuidelines string
	Count           int
}

// RawImage is one synthesized image before it is handed to the media store.
type RawImage struct {
	Data       []byte
	PromptUsed string
	Params     map[string]string
}

// ImageService synthesizes up to req.Count images. Returning fewer images
// than requested is not an error; returning none is.
type ImageService interface {
	GenerateImages(ctx context.Context, req ImageRequest) ([]RawImage, error)
}

// VideoRequest is the input for video synthesis. SourceImages must be
// non-empty; the service fails when no source media is available.
type VideoRequest struct {
	Prompt       string
	SourceImages []string
	ScenePlan    []models.Scene
	Duration     float64
}

// RawVideo is the synthesized cut before storage.
type RawVideo struct {
	Data         []byte
	Duration     float64
	SourceImages []string
}

// VideoService synthesizes one marketing video from the given sources.
type VideoService interface {
	GenerateVideo(ctx context.Context, req VideoRequest) (*RawVideo, error)
}
