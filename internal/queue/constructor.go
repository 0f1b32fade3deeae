package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
)

// QueueName is the per-instance asynq queue. Generation records live in the
// memory of the instance that accepted the request, so only it may run them.
func QueueName(instanceID string) string {
	instanceID = strings.TrimSpace(instanceID)
	if instanceID == "" {
		instanceID = "default"
	}
	return "generations-" + instanceID
}

type AsynqDispatcher struct {
	client *asynq.Client
	queue  string
}

func NewAsynqDispatcher(client *asynq.Client, queue string) *AsynqDispatcher {
	return &AsynqDispatcher{client: client, queue: queue}
}

func NewGenerationTask(task GenerationTask) (*asynq.Task, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeGenerationRun, payload), nil
}

func (d *AsynqDispatcher) Submit(ctx context.Context, task GenerationTask) error {
	t, err := NewGenerationTask(task)
	if err != nil {
		return err
	}

	info, err := d.client.EnqueueContext(ctx, t, asynq.Queue(d.queue), asynq.MaxRetry(0))
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("enqueue generation %s: %w", task.GenerationID, err)
	}

	slog.Info("generation enqueued", "generation_id", task.GenerationID, "task_id", info.ID, "queue", info.Queue)
	return nil
}
