package workflow

import (
	"fmt"
	"time"

	"github.com/artisanhub/mediaflow/pkg/models"
)

var stageLabels = map[models.StageKind]string{
	models.StagePrompt: "prompt generation",
	models.StageImage:  "image generation",
	models.StageVideo:  "video generation",
}

// Compile merges the terminal stage outcomes into one workflow result. Pure:
// identical inputs always produce an identical result. Stages that never ran
// contribute neither payload sections nor error entries.
//
// Overall success requires every stage to have succeeded. Partial success
// means the prompt stage (the hard dependency) succeeded but at least one
// downstream stage did not. A failed prompt stage is a hard failure, neither
// overall nor partial.
func Compile(workflowID string, at time.Time, outcomes []models.StageOutcome) *models.WorkflowResult {
	result := &models.WorkflowResult{
		WorkflowID: workflowID,
		Timestamp:  at,
	}

	succeeded := make(map[models.StageKind]bool, len(outcomes))

	for _, outcome := range outcomes {
		result.Summary.TotalElapsed += outcome.Elapsed
		result.Summary.StagesExecuted++

		if !outcome.Success {
			result.Summary.StagesFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", stageLabels[outcome.Stage], outcome.Error))

			continue
		}

		result.Summary.StagesSucceeded++
		succeeded[outcome.Stage] = true

		if outcome.Payload == nil {
			continue
		}

		switch outcome.Stage {
		case models.StagePrompt:
			result.Prompts = outcome.Payload.Prompts
		case models.StageImage:
			result.Images = outcome.Payload.Images
		case models.StageVideo:
			result.Video = outcome.Payload.Video
		}
	}

	result.Success = succeeded[models.StagePrompt] && succeeded[models.StageImage] && succeeded[models.StageVideo]
	result.PartialSuccess = succeeded[models.StagePrompt] && !result.Success

	return result
}
