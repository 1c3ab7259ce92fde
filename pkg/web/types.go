// Package web provides HTTP request and response types for the content API.
package web

import "github.com/artisanhub/mediaflow/pkg/models"

// OptionsPayload carries the optional per-workflow overrides accepted by the
// API. Absent fields fall back to the configured defaults.
type OptionsPayload struct {
	ImageCount    int     `json:"image_count,omitempty"    validate:"omitempty,min=1"`
	MaxRetries    int     `json:"max_retries,omitempty"    validate:"omitempty,min=1"`
	VideoDuration float64 `json:"video_duration,omitempty" validate:"omitempty,gt=0"`
}

func (p *OptionsPayload) toModel() *models.WorkflowOptions {
	if p == nil {
		return nil
	}

	return &models.WorkflowOptions{
		ImageCount:    p.ImageCount,
		MaxRetries:    p.MaxRetries,
		VideoDuration: p.VideoDuration,
	}
}

// GenerateContentRequest represents the request body for running one
// content-generation workflow.
type GenerateContentRequest struct {
	Description       string          `json:"description"                   validate:"required"`
	ReferenceImageURL string          `json:"reference_image_url,omitempty" validate:"omitempty,url"`
	UserID            string          `json:"user_id"`
	ItemID            string          `json:"item_id"                       validate:"required"`
	Context           map[string]any  `json:"context,omitempty"`
	Options           *OptionsPayload `json:"options,omitempty"`
}

func (r GenerateContentRequest) toModel() models.WorkflowRequest {
	return models.WorkflowRequest{
		Description:       r.Description,
		ReferenceImageURL: r.ReferenceImageURL,
		UserID:            r.UserID,
		ItemID:            r.ItemID,
		Context:           r.Context,
	}
}

// BatchRequest represents the request body for running a batch of workflows.
type BatchRequest struct {
	Items         []GenerateContentRequest `json:"items"          validate:"required,min=1,dive"`
	Options       *OptionsPayload          `json:"options,omitempty"`
	MaxConcurrent int                      `json:"max_concurrent,omitempty" validate:"omitempty,min=1"`
}
