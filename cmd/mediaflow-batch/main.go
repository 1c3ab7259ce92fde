// Command mediaflow-batch runs a batch of content-generation workflows from
// a JSON manifest and prints the aggregate summary.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"github.com/xeipuuv/gojsonschema"

	"github.com/artisanhub/mediaflow/pkg/cmd"
	"github.com/artisanhub/mediaflow/pkg/config"
	"github.com/artisanhub/mediaflow/pkg/generation"
	"github.com/artisanhub/mediaflow/pkg/log"
	"github.com/artisanhub/mediaflow/pkg/mediastore"
	"github.com/artisanhub/mediaflow/pkg/models"
	"github.com/artisanhub/mediaflow/pkg/workflow"
)

const manifestSchema = `{
	"type": "object",
	"required": ["items"],
	"properties": {
		"items": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["description", "item_id"],
				"properties": {
					"description": {"type": "string", "minLength": 1},
					"reference_image_url": {"type": "string"},
					"user_id": {"type": "string"},
					"item_id": {"type": "string", "minLength": 1},
					"context": {"type": "object"}
				}
			}
		},
		"options": {
			"type": "object",
			"properties": {
				"image_count": {"type": "integer", "minimum": 1},
				"max_retries": {"type": "integer", "minimum": 1},
				"video_duration": {"type": "number", "exclusiveMinimum": 0}
			}
		},
		"max_concurrent": {"type": "integer", "minimum": 1}
	}
}`

type manifest struct {
	Items         []models.WorkflowRequest `json:"items"`
	Options       *models.WorkflowOptions  `json:"options,omitempty"`
	MaxConcurrent int                      `json:"max_concurrent,omitempty"`
}

func main() {
	logger := log.WithModule("batch")

	command := &cli.Command{
		Name:  "mediaflow-batch",
		Usage: "Run a batch of content-generation workflows from a JSON manifest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the batch manifest",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			m, err := loadManifest(command.String("file"))
			if err != nil {
				return err
			}

			cfg := config.Default()

			simulator := generation.NewSimulator()
			runners := cmd.NewStageRunners(cfg, cmd.GenerationServices{
				Prompt: simulator,
				Image:  simulator,
				Video:  simulator,
			}, mediastore.NewMemoryStore(), logger)

			service := workflow.NewService(cfg, logger, runners, nil, nil)

			runCtx, cancel := context.WithTimeout(ctx, cfg.WorkflowTimeout*time.Duration(len(m.Items)))
			defer cancel()

			summary := service.SubmitBatch(runCtx, m.Items, m.Options, m.MaxConcurrent)

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")

			return encoder.Encode(summary)
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("Batch run failed", "error", err)
		os.Exit(1)
	}
}

// loadManifest reads and schema-validates the batch manifest before any
// workflow runs; a malformed file fails the whole invocation up front.
func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	dataLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return nil, fmt.Errorf("validating manifest: %w", err)
	}

	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return nil, fmt.Errorf("invalid manifest: %s", strings.Join(details, "; "))
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	return &m, nil
}
