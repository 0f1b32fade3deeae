package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hibiken/asynq"
)

type Worker struct {
	runner Runner
}

func NewWorker(runner Runner) *Worker {
	return &Worker{runner: runner}
}

func (w *Worker) HandleGenerationTask(ctx context.Context, task *asynq.Task) error {
	var payload GenerationTask
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode generation payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.GenerationID == "" {
		return fmt.Errorf("generation payload has no id: %w", asynq.SkipRetry)
	}

	return w.runner.Run(ctx, payload.GenerationID, payload.Topic)
}

// ServeMux routes generation tasks to w.
func (w *Worker) ServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeGenerationRun, w.HandleGenerationTask)
	return mux
}

// Pool runs generations on a fixed set of goroutines fed by a bounded backlog.
type Pool struct {
	runner  Runner
	workers int
	jobs    chan GenerationTask

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewPool(runner Runner, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		runner:  runner,
		workers: workers,
		jobs:    make(chan GenerationTask, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for task := range p.jobs {
		if err := p.runner.Run(p.ctx, task.GenerationID, task.Topic); err != nil {
			slog.Info(err.Error(), "generation_id", task.GenerationID)
		}
	}
}

func (p *Pool) Submit(ctx context.Context, task GenerationTask) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrQueueClosed
	}

	// Non-blocking send: a full backlog is reported, never waited on
	select {
	case p.jobs <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new work and waits for queued and running generations. When ctx
// expires first, in-flight runs are cancelled so they settle as failed.
func (p *Pool) Stop(ctx context.Context) error {
	// Refuse new work and let workers drain the backlog
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	// Wait for workers in the background so the deadline can win
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		// Cancel in-flight runs, then wait for them to settle
		p.cancel()
		<-done
		return ctx.Err()
	}
}
