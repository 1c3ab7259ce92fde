package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/artisanhub/mediaflow/pkg/models"
)

// FailMarker in a request description forces a prompt-stage failure. Useful
// for exercising failure paths from batch files without touching code.
const FailMarker = "fail:"

var errSimulatedFailure = errors.New("simulated generation failure")

// Simulator implements all three generation services with deterministic
// outputs. Failures can be scripted per stage with FailNext, or forced per
// request by prefixing the description with FailMarker.
type Simulator struct {
	mu        sync.Mutex
	failLeft  map[models.StageKind]int
	calls     map[models.StageKind]int
	// Barrier, when set, blocks every prompt call until it yields. Lets tests
	// hold workflows in the running state deterministically.
	Barrier chan struct{}
}

func NewSimulator() *Simulator {
	return &Simulator{
		failLeft: make(map[models.StageKind]int),
		calls:    make(map[models.StageKind]int),
	}
}

// FailNext makes the next n calls to the given stage's service fail.
func (s *Simulator) FailNext(stage models.StageKind, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLeft[stage] = n
}

// Calls reports how many times the given stage's service was invoked.
func (s *Simulator) Calls(stage models.StageKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[stage]
}

func (s *Simulator) shouldFail(stage models.StageKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[stage]++
	if s.failLeft[stage] != 0 {
		s.failLeft[stage]--

		return true
	}

	return false
}

func (s *Simulator) GeneratePrompts(ctx context.Context, req PromptRequest) (*models.PromptArtifacts, error) {
	if s.Barrier != nil {
		select {
		case <-s.Barrier:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if strings.HasPrefix(req.Description, FailMarker) {
		return nil, fmt.Errorf("%w: prompt synthesis rejected %q", errSimulatedFailure, req.Description)
	}

	if s.shouldFail(models.StagePrompt) {
		return nil, fmt.Errorf("%w: prompt service unavailable", errSimulatedFailure)
	}

	subject := req.Description

	return &models.PromptArtifacts{
		ImagePrompt:     "studio photograph of " + subject,
		VideoPrompt:     "slow pan across " + subject,
		StyleGuidelines: "warm natural light, shallow depth of field",
		TargetAudience:  "handmade-goods shoppers",
		MarketingAngle:  "craftsmanship and material quality",
		SceneBreakdown: []models.Scene{
			{Description: "product reveal", Seconds: 5},
			{Description: "detail close-up", Seconds: 5},
			{Description: "lifestyle context", Seconds: 5},
		},
		MusicStyle: "acoustic",
	}, nil
}

func (s *Simulator) GenerateImages(ctx context.Context, req ImageRequest) ([]RawImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.shouldFail(models.StageImage) {
		return nil, fmt.Errorf("%w: image service unavailable", errSimulatedFailure)
	}

	images := make([]RawImage, 0, req.Count)
	for i := range req.Count {
		images = append(images, RawImage{
			Data:       fmt.Appendf(nil, "png:%s:%d", req.Prompt, i+1),
			PromptUsed: fmt.Sprintf("%s (variation %d)", req.Prompt, i+1),
			Params: map[string]string{
				"aspect_ratio": "1:1",
				"style":        req.StyleGuidelines,
			},
		})
	}

	return images, nil
}

func (s *Simulator) GenerateVideo(ctx context.Context, req VideoRequest) (*RawVideo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.shouldFail(models.StageVideo) {
		return nil, fmt.Errorf("%w: video service unavailable", errSimulatedFailure)
	}

	if len(req.SourceImages) == 0 {
		return nil, fmt.Errorf("%w: no source media supplied", errSimulatedFailure)
	}

	return &RawVideo{
		Data:         fmt.Appendf(nil, "mp4:%s:%d-sources", req.Prompt, len(req.SourceImages)),
		Duration:     req.Duration,
		SourceImages: req.SourceImages,
	}, nil
}
