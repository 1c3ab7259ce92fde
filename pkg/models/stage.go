package models

import "time"

// StageKind identifies one pipeline stage.
type StageKind string

const (
	StagePrompt StageKind = "prompt"
	StageImage  StageKind = "image"
	StageVideo  StageKind = "video"
)

// PipelineStages is the fixed execution order within one workflow.
var PipelineStages = []StageKind{StagePrompt, StageImage, StageVideo}

// PromptArtifacts is the prompt stage output consumed by both downstream stages.
type PromptArtifacts struct {
	ImagePrompt     string  `json:"image_prompt"`
	VideoPrompt     string  `json:"video_prompt"`
	StyleGuidelines string  `json:"style_guidelines"`
	TargetAudience  string  `json:"target_audience"`
	MarketingAngle  string  `json:"marketing_angle"`
	SceneBreakdown  []Scene `json:"scene_breakdown,omitempty"`
	MusicStyle      string  `json:"music_style,omitempty"`
}

// Scene is one entry of the video scene plan.
type Scene struct {
	Description string  `json:"description"`
	Seconds     float64 `json:"seconds"`
}

// GeneratedImage describes one stored image produced by the image stage.
type GeneratedImage struct {
	URL         string            `json:"url"`
	StoragePath string            `json:"storage_path"`
	PromptUsed  string            `json:"prompt_used"`
	Params      map[string]string `json:"params,omitempty"`
}

// ImageSettings records the generation settings the image stage ran with.
type ImageSettings struct {
	Count   int    `json:"count"`
	Quality string `json:"quality"`
	Format  string `json:"format"`
}

// ImageSet is the image stage output. The stage counts as successful when at
// least one image was produced, so Failed may be non-zero on success.
type ImageSet struct {
	Images    []GeneratedImage `json:"images"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Failures  []string         `json:"failures,omitempty"`
	Settings  ImageSettings    `json:"settings"`
}

// GeneratedVideo describes the stored video cut.
type GeneratedVideo struct {
	URL          string   `json:"url"`
	StoragePath  string   `json:"storage_path"`
	Duration     float64  `json:"duration_seconds"`
	SourceImages []string `json:"source_images"`
	PromptUsed   string   `json:"prompt_used"`
}

// VideoDetails carries encoding metadata for the produced cut.
type VideoDetails struct {
	Duration   float64 `json:"duration_seconds"`
	Resolution string  `json:"resolution"`
	Format     string  `json:"format"`
	FileSize   int     `json:"file_size"`
	SceneCount int     `json:"scene_count"`
}

// VideoCut is the video stage output.
type VideoCut struct {
	Video   GeneratedVideo `json:"video"`
	Details VideoDetails   `json:"details"`
}

// StagePayload is a tagged union: exactly the field matching Stage is set.
type StagePayload struct {
	Stage   StageKind        `json:"stage"`
	Prompts *PromptArtifacts `json:"prompts,omitempty"`
	Images  *ImageSet        `json:"images,omitempty"`
	Video   *VideoCut        `json:"video,omitempty"`
}

// StageOutcome is the single terminal result of one stage attempt sequence.
// Failures are values, never errors: Success=false with Error set.
type StageOutcome struct {
	Stage   StageKind     `json:"stage"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
	Payload *StagePayload `json:"payload,omitempty"`
}

// PipelineContext accumulates the request plus every prior stage's successful
// payload. A failed stage leaves its slot nil, which downstream stages read as
// an empty default.
type PipelineContext struct {
	WorkflowID string
	Request    WorkflowRequest
	Options    WorkflowOptions
	Prompts    *PromptArtifacts
	Images     *ImageSet
	Video      *VideoCut
}

// Apply merges a successful stage payload into the accumulated context.
func (pc *PipelineContext) Apply(payload *StagePayload) {
	if payload == nil {
		return
	}

	switch payload.Stage {
	case StagePrompt:
		pc.Prompts = payload.Prompts
	case StageImage:
		pc.Images = payload.Images
	case StageVideo:
		pc.Video = payload.Video
	}
}

// GeneratedImageURLs lists the image stage's stored image URLs, empty when the
// image stage failed or has not run.
func (pc *PipelineContext) GeneratedImageURLs() []string {
	if pc.Images == nil {
		return nil
	}

	urls := make([]string, 0, len(pc.Images.Images))
	for _, img := range pc.Images.Images {
		urls = append(urls, img.URL)
	}

	return urls
}

// SourceImageURLs lists every media source available to the video stage:
// generated images first, then the caller's reference image if supplied.
func (pc *PipelineContext) SourceImageURLs() []string {
	urls := pc.GeneratedImageURLs()
	if pc.Request.ReferenceImageURL != "" {
		urls = append(urls, pc.Request.ReferenceImageURL)
	}

	return urls
}
