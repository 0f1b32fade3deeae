package job

import (
	"log/slog"
	"time"

	"github.com/maheshrc27/contentflow/internal/repository"
)

const CleanupSchedule = "@every 10m"

type CleanupJob struct {
	gr  repository.StatusRepository
	sr  repository.SessionRepository
	now func() time.Time
}

func NewCleanupJob(gr repository.StatusRepository, sr repository.SessionRepository) *CleanupJob {
	return &CleanupJob{gr: gr, sr: sr, now: time.Now}
}

// EvictExpired drops finished generations past their TTL and expired sessions.
func (c *CleanupJob) EvictExpired() {
	now := c.now()

	generations := c.gr.EvictExpired(now)
	sessions := c.sr.EvictExpired(now)

	if generations > 0 || sessions > 0 {
		slog.Info("expired records evicted", "generations", generations, "sessions", sessions, "remaining_generations", c.gr.Len())
	}
}
