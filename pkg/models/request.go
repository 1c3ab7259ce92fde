// Package models defines the core domain models for the content-generation pipeline.
package models

// WorkflowRequest is the immutable input for one workflow run. ItemID is
// caller-supplied and assumed unique per request; uniqueness is not enforced.
type WorkflowRequest struct {
	Description       string         `json:"description"                   validate:"required"`
	ReferenceImageURL string         `json:"reference_image_url,omitempty" validate:"omitempty,url"`
	UserID            string         `json:"user_id"`
	ItemID            string         `json:"item_id"                       validate:"required"`
	Context           map[string]any `json:"context,omitempty"`
}

// WorkflowOptions carries per-workflow overrides. Zero values fall back to the
// configured defaults.
type WorkflowOptions struct {
	ImageCount    int     `json:"image_count,omitempty" validate:"omitempty,min=1"`
	MaxRetries    int     `json:"max_retries,omitempty" validate:"omitempty,min=1"`
	VideoDuration float64 `json:"video_duration,omitempty" validate:"omitempty,gt=0"`
}
