package web

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/artisanhub/mediaflow/pkg/models"
	"github.com/artisanhub/mediaflow/pkg/workflow"
)

// Orchestrator is the slice of the workflow service the API depends on.
type Orchestrator interface {
	Submit(ctx context.Context, req models.WorkflowRequest, opts *models.WorkflowOptions) (*models.WorkflowResult, error)
	SubmitBatch(ctx context.Context, requests []models.WorkflowRequest, opts *models.WorkflowOptions, maxConcurrent int) *models.BatchSummary
	Status(id string) (*models.WorkflowView, bool)
	Result(id string) (*models.WorkflowResult, bool)
	Cancel(ctx context.Context, id string) bool
	SystemStatus() models.SystemStatus
	WorkflowTimeout() time.Duration
}

type APIHandlers struct {
	orchestrator Orchestrator
	validator    *validator.Validate
}

func NewAPIHandlers(orchestrator Orchestrator, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		orchestrator: orchestrator,
		validator:    validator,
	}
}

// GenerateContent runs one workflow synchronously and returns its compiled
// result. The per-workflow deadline is applied here, at the transport
// boundary.
func (h *APIHandlers) GenerateContent(c fiber.Ctx) error {
	var req GenerateContentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.orchestrator.WorkflowTimeout())
	defer cancel()

	result, err := h.orchestrator.Submit(ctx, req.toModel(), req.Options.toModel())
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrCapacity):
			return capacityExceeded(c, err.Error())
		case errors.Is(err, workflow.ErrCancelled):
			return workflowCancelled(c, err.Error())
		default:
			return badRequest(c, err.Error())
		}
	}

	return c.JSON(result)
}

// SubmitBatch runs a batch of workflows and returns the aggregate summary.
// Individual failures are reported inside the summary, never as an HTTP
// error.
func (h *APIHandlers) SubmitBatch(c fiber.Ctx) error {
	var req BatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	requests := make([]models.WorkflowRequest, 0, len(req.Items))
	for _, item := range req.Items {
		requests = append(requests, item.toModel())
	}

	timeout := h.orchestrator.WorkflowTimeout() * time.Duration(len(requests))

	ctx, cancel := context.WithTimeout(c.Context(), timeout)
	defer cancel()

	summary := h.orchestrator.SubmitBatch(ctx, requests, req.Options.toModel(), req.MaxConcurrent)

	return c.JSON(summary)
}

func (h *APIHandlers) WorkflowStatus(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	view, ok := h.orchestrator.Status(id)
	if !ok {
		return notFound(c, "Workflow not found")
	}

	return c.JSON(view)
}

func (h *APIHandlers) WorkflowResult(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	result, ok := h.orchestrator.Result(id)
	if !ok {
		return notFound(c, "Workflow result not found")
	}

	return c.JSON(result)
}

func (h *APIHandlers) CancelWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if !h.orchestrator.Cancel(c.Context(), id) {
		return notFound(c, "Workflow not found or already finished")
	}

	return c.JSON(fiber.Map{
		"workflow_id": id,
		"status":      string(models.WorkflowCancelled),
	})
}

func (h *APIHandlers) SystemStatus(c fiber.Ctx) error {
	return c.JSON(h.orchestrator.SystemStatus())
}
