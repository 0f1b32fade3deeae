package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newQueued(id string) *models.Generation {
	return &models.Generation{
		ID:          id,
		Topic:       "magnesium glycinate",
		Status:      models.GenerationStatusQueued,
		CurrentStep: "Queued",
		CreatedAt:   time.Now(),
	}
}

func TestStatusRepositoryCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewStatusRepository(time.Hour)

	if err := repo.Create(ctx, newQueued("gen_1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, newQueued("gen_1")); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second Create err = %v, want ErrAlreadyExists", err)
	}
}

func TestStatusRepositoryUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	repo := NewStatusRepository(time.Hour)
	_ = repo.Create(ctx, newQueued("gen_1"))

	started := time.Now()
	err := repo.Update(ctx, "gen_1", models.GenerationPatch{
		Status:    strPtr(models.GenerationStatusAnalyzing),
		Progress:  intPtr(10),
		StartedAt: &started,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := repo.Update(ctx, "gen_1", models.GenerationPatch{Message: strPtr("still working")}); err != nil {
		t.Fatalf("Update message: %v", err)
	}

	g, err := repo.Get(ctx, "gen_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.Status != models.GenerationStatusAnalyzing || g.Progress != 10 {
		t.Errorf("got status=%s progress=%d", g.Status, g.Progress)
	}
	if g.Message != "still working" {
		t.Errorf("Message = %q", g.Message)
	}
	if g.Topic != "magnesium glycinate" || g.StartedAt == nil {
		t.Errorf("untouched fields lost: %+v", g)
	}
}

func TestStatusRepositoryUpdateUnknown(t *testing.T) {
	repo := NewStatusRepository(time.Hour)
	err := repo.Update(context.Background(), "missing", models.GenerationPatch{Progress: intPtr(10)})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get err = %v, want ErrNotFound", err)
	}
}

func TestStatusRepositoryRejectsProgressRegression(t *testing.T) {
	ctx := context.Background()
	repo := NewStatusRepository(time.Hour)
	_ = repo.Create(ctx, newQueued("gen_1"))
	_ = repo.Update(ctx, "gen_1", models.GenerationPatch{Progress: intPtr(55)})

	err := repo.Update(ctx, "gen_1", models.GenerationPatch{Progress: intPtr(30)})
	if !errors.Is(err, ErrProgressRegression) {
		t.Fatalf("err = %v, want ErrProgressRegression", err)
	}
	g, _ := repo.Get(ctx, "gen_1")
	if g.Progress != 55 {
		t.Errorf("Progress = %d, want 55", g.Progress)
	}
}

func TestStatusRepositoryGetReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := NewStatusRepository(time.Hour)
	_ = repo.Create(ctx, newQueued("gen_1"))

	g, _ := repo.Get(ctx, "gen_1")
	g.Status = "tampered"

	again, _ := repo.Get(ctx, "gen_1")
	if again.Status != models.GenerationStatusQueued {
		t.Errorf("reader mutation leaked into table: %s", again.Status)
	}
}

func TestStatusRepositoryEvictExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewStatusRepository(time.Hour)
	now := time.Now()
	old := now.Add(-2 * time.Hour)

	_ = repo.Create(ctx, newQueued("done_old"))
	_ = repo.Update(ctx, "done_old", models.GenerationPatch{Status: strPtr(models.GenerationStatusCompleted), CompletedAt: &old})
	_ = repo.Create(ctx, newQueued("done_new"))
	_ = repo.Update(ctx, "done_new", models.GenerationPatch{Status: strPtr(models.GenerationStatusCompleted), CompletedAt: &now})
	_ = repo.Create(ctx, newQueued("running"))

	if n := repo.EvictExpired(now); n != 1 {
		t.Fatalf("evicted %d, want 1", n)
	}
	if _, err := repo.Get(ctx, "done_old"); !errors.Is(err, ErrNotFound) {
		t.Error("expired record still present")
	}
	if repo.Len() != 2 {
		t.Errorf("Len = %d, want 2", repo.Len())
	}

	repo.Clear()
	if repo.Len() != 0 {
		t.Errorf("Len after Clear = %d", repo.Len())
	}
}

func TestStatusRepositoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewStatusRepository(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("gen_%d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := repo.Create(ctx, newQueued(id)); err != nil {
				t.Error(err)
				return
			}
			for p := 0; p <= 100; p += 10 {
				if err := repo.Update(ctx, id, models.GenerationPatch{Progress: intPtr(p)}); err != nil {
					t.Error(err)
				}
			}
		}()
		go func() {
			defer wg.Done()
			last := -1
			for j := 0; j < 50; j++ {
				g, err := repo.Get(ctx, id)
				if err != nil {
					continue
				}
				if g.Progress < last {
					t.Errorf("progress went backwards for %s: %d -> %d", id, last, g.Progress)
				}
				last = g.Progress
			}
		}()
	}
	wg.Wait()

	if repo.Len() != 20 {
		t.Errorf("Len = %d, want 20", repo.Len())
	}
}
