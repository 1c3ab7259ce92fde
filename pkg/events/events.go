// Package events defines the lifecycle notifications the orchestrator
// publishes while workflows and batches run.
package events

import (
	"time"

	"github.com/artisanhub/mediaflow/pkg/models"
)

type EventType string

// Topic carries every lifecycle event.
const Topic = "mediaflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	WorkflowStartedEvent   EventType = "workflow.started"
	WorkflowCompletedEvent EventType = "workflow.completed"
	WorkflowFailedEvent    EventType = "workflow.failed"
	WorkflowCancelledEvent EventType = "workflow.cancelled"

	StageStartedEvent  EventType = "stage.started"
	StageFinishedEvent EventType = "stage.finished"

	BatchCompletedEvent EventType = "batch.completed"
)

type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	WorkflowID string    `json:"workflow_id,omitempty"`
}

type WorkflowStarted struct {
	BaseEvent

	ItemID string `json:"item_id"`
	UserID string `json:"user_id,omitempty"`
}

func (e WorkflowStarted) GetType() EventType {
	return WorkflowStartedEvent
}

type WorkflowCompleted struct {
	BaseEvent

	Success        bool          `json:"success"`
	PartialSuccess bool          `json:"partial_success"`
	Duration       time.Duration `json:"duration"`
}

func (e WorkflowCompleted) GetType() EventType {
	return WorkflowCompletedEvent
}

type WorkflowFailed struct {
	BaseEvent

	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

func (e WorkflowFailed) GetType() EventType {
	return WorkflowFailedEvent
}

type WorkflowCancelled struct {
	BaseEvent
}

func (e WorkflowCancelled) GetType() EventType {
	return WorkflowCancelledEvent
}

type StageStarted struct {
	BaseEvent

	Stage models.StageKind `json:"stage"`
}

func (e StageStarted) GetType() EventType {
	return StageStartedEvent
}

type StageFinished struct {
	BaseEvent

	Stage   models.StageKind `json:"stage"`
	Success bool             `json:"success"`
	Elapsed time.Duration    `json:"elapsed"`
	Error   string           `json:"error,omitempty"`
}

func (e StageFinished) GetType() EventType {
	return StageFinishedEvent
}

type BatchCompleted struct {
	BaseEvent

	BatchID     string  `json:"batch_id"`
	Total       int     `json:"total"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

func (e BatchCompleted) GetType() EventType {
	return BatchCompletedEvent
}
