package job

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
)

func TestCleanupJobEvictsExpired(t *testing.T) {
	ctx := context.Background()
	gr := repository.NewStatusRepository(time.Hour)
	sr := repository.NewMemorySessionRepository(time.Hour)

	old := time.Now().Add(-2 * time.Hour)
	status := models.GenerationStatusCompleted
	_ = gr.Create(ctx, &models.Generation{ID: "gen_old", Status: models.GenerationStatusQueued})
	_ = gr.Update(ctx, "gen_old", models.GenerationPatch{Status: &status, CompletedAt: &old})
	_ = gr.Create(ctx, &models.Generation{ID: "gen_running", Status: models.GenerationStatusAnalyzing})
	_ = sr.SaveState(ctx, "s1", "state")

	job := NewCleanupJob(gr, sr)
	job.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	job.EvictExpired()

	if gr.Len() != 1 {
		t.Errorf("generations left = %d, want 1", gr.Len())
	}
	if _, err := gr.Get(ctx, "gen_running"); err != nil {
		t.Errorf("running generation evicted: %v", err)
	}
	if state, _ := sr.GetState(ctx, "s1"); state != "" {
		t.Error("expired session survived")
	}
}
