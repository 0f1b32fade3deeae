package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/pkg/utils"
	"github.com/redis/go-redis/v9"
)

// SessionRepository keeps per-caller OAuth state and Blogger credentials.
// Missing entries are reported as empty values, not errors.
type SessionRepository interface {
	SaveState(ctx context.Context, sessionID, state string) error
	GetState(ctx context.Context, sessionID string) (string, error)
	DeleteState(ctx context.Context, sessionID string) error
	SaveCredentials(ctx context.Context, sessionID string, bundle *models.CredentialBundle) error
	GetCredentials(ctx context.Context, sessionID string) (*models.CredentialBundle, error)
	Delete(ctx context.Context, sessionID string) error
	EvictExpired(now time.Time) int
}

type sessionEntry struct {
	state       string
	credentials *models.CredentialBundle
	expiresAt   time.Time
}

type memorySessionRepository struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*sessionEntry
}

func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessionRepository{
		ttl:      ttl,
		sessions: make(map[string]*sessionEntry),
	}
}

// entry returns the live entry for sessionID, creating it when create is set. Caller holds mu.
func (r *memorySessionRepository) entry(sessionID string, create bool) *sessionEntry {
	e, ok := r.sessions[sessionID]
	if ok && time.Now().After(e.expiresAt) {
		delete(r.sessions, sessionID)
		e, ok = nil, false
	}
	if !ok && create {
		e = &sessionEntry{}
		r.sessions[sessionID] = e
	}
	if e != nil && create {
		e.expiresAt = time.Now().Add(r.ttl)
	}
	return e
}

func (r *memorySessionRepository) SaveState(ctx context.Context, sessionID, state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entry(sessionID, true).state = state
	return nil
}

func (r *memorySessionRepository) GetState(ctx context.Context, sessionID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e := r.entry(sessionID, false); e != nil {
		return e.state, nil
	}
	return "", nil
}

func (r *memorySessionRepository) DeleteState(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e := r.entry(sessionID, false); e != nil {
		e.state = ""
	}
	return nil
}

func (r *memorySessionRepository) SaveCredentials(ctx context.Context, sessionID string, bundle *models.CredentialBundle) error {
	if bundle == nil {
		return errors.New("credential bundle is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *bundle
	r.entry(sessionID, true).credentials = &copied
	return nil
}

func (r *memorySessionRepository) GetCredentials(ctx context.Context, sessionID string) (*models.CredentialBundle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entry(sessionID, false)
	if e == nil || e.credentials == nil {
		return nil, nil
	}
	copied := *e.credentials
	return &copied, nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *memorySessionRepository) EvictExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.sessions {
		if now.After(e.expiresAt) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	key    []byte
}

// NewRedisSessionRepository stores sessions under session:<id>:*. Credential bundles are
// sealed with AES-GCM when secretKey is a valid AES key length.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, secretKey string) SessionRepository {
	r := &redisSessionRepository{client: client, ttl: ttl}
	switch len(secretKey) {
	case 16, 24, 32:
		r.key = []byte(secretKey)
	default:
		slog.Warn("SECRET_KEY is not a valid AES key length, credentials are stored unencrypted")
	}
	return r
}

func stateKey(sessionID string) string {
	return fmt.Sprintf("session:%s:state", sessionID)
}

func credentialsKey(sessionID string) string {
	return fmt.Sprintf("session:%s:credentials", sessionID)
}

func (r *redisSessionRepository) SaveState(ctx context.Context, sessionID, state string) error {
	if err := r.client.Set(ctx, stateKey(sessionID), state, r.ttl).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *redisSessionRepository) GetState(ctx context.Context, sessionID string) (string, error) {
	state, err := r.client.Get(ctx, stateKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return state, nil
}

func (r *redisSessionRepository) DeleteState(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, stateKey(sessionID)).Err()
}

func (r *redisSessionRepository) SaveCredentials(ctx context.Context, sessionID string, bundle *models.CredentialBundle) error {
	if bundle == nil {
		return errors.New("credential bundle is nil")
	}

	var value string
	if r.key != nil {
		sealed, err := utils.EncryptJSON(bundle, r.key)
		if err != nil {
			return err
		}
		value = sealed
	} else {
		raw, err := json.Marshal(bundle)
		if err != nil {
			return err
		}
		value = string(raw)
	}

	if err := r.client.Set(ctx, credentialsKey(sessionID), value, r.ttl).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *redisSessionRepository) GetCredentials(ctx context.Context, sessionID string) (*models.CredentialBundle, error) {
	value, err := r.client.Get(ctx, credentialsKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	var bundle models.CredentialBundle
	if r.key != nil {
		err = utils.DecryptJSON(value, r.key, &bundle)
	} else {
		err = json.Unmarshal([]byte(value), &bundle)
	}
	if err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return &bundle, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, stateKey(sessionID), credentialsKey(sessionID)).Err()
}

// EvictExpired is a no-op: Redis expires keys itself.
func (r *redisSessionRepository) EvictExpired(now time.Time) int {
	return 0
}
