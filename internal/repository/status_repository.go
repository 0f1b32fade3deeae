package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
)

var (
	ErrNotFound           = errors.New("generation not found")
	ErrAlreadyExists      = errors.New("generation already exists")
	ErrProgressRegression = errors.New("progress cannot decrease")
)

// StatusRepository is the process-wide table of generation records.
type StatusRepository interface {
	Create(ctx context.Context, g *models.Generation) error
	Update(ctx context.Context, id string, patch models.GenerationPatch) error
	Get(ctx context.Context, id string) (*models.Generation, error)
	Delete(ctx context.Context, id string) error
	EvictExpired(now time.Time) int
	Clear()
	Len() int
}

type statusRepository struct {
	mu  sync.RWMutex
	ttl time.Duration
	gen map[string]*models.Generation
}

// NewStatusRepository keeps terminal records for ttl after completion; ttl <= 0 keeps them forever.
func NewStatusRepository(ttl time.Duration) StatusRepository {
	return &statusRepository{
		ttl: ttl,
		gen: make(map[string]*models.Generation),
	}
}

func (r *statusRepository) Create(ctx context.Context, g *models.Generation) error {
	if g == nil || g.ID == "" {
		return errors.New("generation id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.gen[g.ID]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, g.ID)
	}
	stored := *g
	r.gen[g.ID] = &stored
	return nil
}

func (r *statusRepository) Update(ctx context.Context, id string, patch models.GenerationPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.gen[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if patch.Progress != nil && *patch.Progress < g.Progress {
		return fmt.Errorf("%w: %d -> %d", ErrProgressRegression, g.Progress, *patch.Progress)
	}

	// Swap in a whole new version; a stage is never half applied.
	next := *g
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.Progress != nil {
		next.Progress = *patch.Progress
	}
	if patch.CurrentStep != nil {
		next.CurrentStep = *patch.CurrentStep
	}
	if patch.Message != nil {
		next.Message = *patch.Message
	}
	if patch.Error != nil {
		next.Error = *patch.Error
	}
	if patch.StartedAt != nil {
		t := *patch.StartedAt
		next.StartedAt = &t
	}
	if patch.CompletedAt != nil {
		t := *patch.CompletedAt
		next.CompletedAt = &t
	}
	if patch.Results != nil {
		next.Results = patch.Results
	}

	r.gen[id] = &next
	return nil
}

func (r *statusRepository) Get(ctx context.Context, id string) (*models.Generation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gen[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	snapshot := *g
	return &snapshot, nil
}

func (r *statusRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.gen[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.gen, id)
	return nil
}

func (r *statusRepository) EvictExpired(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, g := range r.gen {
		if !g.IsTerminal() || g.CompletedAt == nil {
			continue
		}
		if now.Sub(*g.CompletedAt) >= r.ttl {
			delete(r.gen, id)
			evicted++
		}
	}
	return evicted
}

func (r *statusRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen = make(map[string]*models.Generation)
}

func (r *statusRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.gen)
}
