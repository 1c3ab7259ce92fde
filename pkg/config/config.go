// Package config provides the orchestrator configuration knobs and defaults.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for every knob the orchestrator honors.
const (
	DefaultMaxConcurrentWorkflows = 5
	DefaultMaxRetriesPerStage     = 3
	DefaultImageCount             = 2
	DefaultImageCountMax          = 3
	DefaultVideoDuration          = 15 * time.Second
	DefaultBatchMaxConcurrent     = 3
	DefaultWorkflowTimeout        = 300 * time.Second
	DefaultRetryBaseDelay         = time.Second
	DefaultHistoryRetention       = 1000
)

// Config holds the orchestrator settings. Use Default() and override fields
// before passing it on; Validate rejects inconsistent combinations.
type Config struct {
	MaxConcurrentWorkflows int           `json:"max_concurrent_workflows" validate:"min=1"`
	MaxRetriesPerStage     int           `json:"max_retries_per_stage"    validate:"min=1"`
	ImageCount             int           `json:"image_count"              validate:"min=1"`
	ImageCountMax          int           `json:"image_count_max"          validate:"min=1"`
	VideoDuration          time.Duration `json:"video_duration"           validate:"gt=0"`
	BatchMaxConcurrent     int           `json:"batch_max_concurrent"     validate:"min=1"`
	WorkflowTimeout        time.Duration `json:"workflow_timeout"         validate:"gt=0"`
	RetryBaseDelay         time.Duration `json:"retry_base_delay"         validate:"gt=0"`
	HistoryRetention       int           `json:"history_retention"        validate:"min=1"`
}

func Default() Config {
	return Config{
		MaxConcurrentWorkflows: DefaultMaxConcurrentWorkflows,
		MaxRetriesPerStage:     DefaultMaxRetriesPerStage,
		ImageCount:             DefaultImageCount,
		ImageCountMax:          DefaultImageCountMax,
		VideoDuration:          DefaultVideoDuration,
		BatchMaxConcurrent:     DefaultBatchMaxConcurrent,
		WorkflowTimeout:        DefaultWorkflowTimeout,
		RetryBaseDelay:         DefaultRetryBaseDelay,
		HistoryRetention:       DefaultHistoryRetention,
	}
}

func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.ImageCount > c.ImageCountMax {
		return fmt.Errorf("image_count %d exceeds image_count_max %d", c.ImageCount, c.ImageCountMax)
	}

	return nil
}
