package queue

import (
	"context"
	"errors"
)

const TaskTypeGenerationRun = "generation:run"

var (
	ErrQueueFull   = errors.New("generation queue is full")
	ErrQueueClosed = errors.New("generation queue is closed")
)

type GenerationTask struct {
	GenerationID string `json:"generation_id"`
	Topic        string `json:"topic"`
}

// Runner executes one generation to a terminal state.
type Runner interface {
	Run(ctx context.Context, id, topic string) error
}

// Dispatcher admits generation runs for background execution.
type Dispatcher interface {
	Submit(ctx context.Context, task GenerationTask) error
}
