package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
)

type PostingHistoryRepository interface {
	Create(ctx context.Context, ph *models.PostingHistory) (int64, error)
	ListBySessionID(ctx context.Context, sessionID string) ([]*models.PostingHistory, error)
}

type postingHistoryRepository struct {
	db *sql.DB
}

func NewPostingHistoryRepository(db *sql.DB) PostingHistoryRepository {
	return &postingHistoryRepository{db: db}
}

// MigratePostingHistory creates the posting_history table when it does not exist.
func MigratePostingHistory(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS posting_history (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			blog_id TEXT NOT NULL,
			post_id TEXT NOT NULL DEFAULT '',
			post_url TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posting_history_session ON posting_history(session_id, created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}

func (r *postingHistoryRepository) Create(ctx context.Context, ph *models.PostingHistory) (int64, error) {
	query := `
		INSERT INTO posting_history (session_id, blog_id, post_id, post_url, title, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		ph.SessionID,
		ph.BlogID,
		ph.PostID,
		ph.PostURL,
		ph.Title,
		ph.ErrorMessage,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postingHistoryRepository) ListBySessionID(ctx context.Context, sessionID string) ([]*models.PostingHistory, error) {
	query := `
		SELECT id, session_id, blog_id, post_id, post_url, title, error_message, created_at
		FROM posting_history
		WHERE session_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var phs []*models.PostingHistory
	for rows.Next() {
		var ph models.PostingHistory
		err := rows.Scan(&ph.ID, &ph.SessionID, &ph.BlogID, &ph.PostID, &ph.PostURL, &ph.Title, &ph.ErrorMessage, &ph.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		phs = append(phs, &ph)
	}
	return phs, rows.Err()
}

// MemoryPostingHistoryLimit caps the in-memory history; the oldest entries go first.
const MemoryPostingHistoryLimit = 1000

type memoryPostingHistoryRepository struct {
	mu      sync.Mutex
	limit   int
	nextID  int64
	entries []*models.PostingHistory
}

// NewMemoryPostingHistoryRepository is used when no Postgres URI is configured.
func NewMemoryPostingHistoryRepository() PostingHistoryRepository {
	return &memoryPostingHistoryRepository{limit: MemoryPostingHistoryLimit}
}

func (r *memoryPostingHistoryRepository) Create(ctx context.Context, ph *models.PostingHistory) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *ph
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, &stored)

	// Drop the oldest entries once over the limit.
	if over := len(r.entries) - r.limit; r.limit > 0 && over > 0 {
		r.entries = append([]*models.PostingHistory(nil), r.entries[over:]...)
	}
	return stored.ID, nil
}

func (r *memoryPostingHistoryRepository) ListBySessionID(ctx context.Context, sessionID string) ([]*models.PostingHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.PostingHistory
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].SessionID == sessionID {
			copied := *r.entries[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}
