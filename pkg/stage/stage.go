// Package stage defines the pluggable unit-of-work contract shared by the
// three pipeline stages, plus the retry harness that wraps them.
package stage

import (
	"context"

	"github.com/artisanhub/mediaflow/pkg/models"
)

// Unit is one pipeline stage. Process reads the accumulated context and
// returns its payload, or an error describing why this attempt failed.
type Unit interface {
	Kind() models.StageKind
	Process(ctx context.Context, pc *models.PipelineContext) (*models.StagePayload, error)
}
