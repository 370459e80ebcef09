// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"compare-workers/internal/common/errors"
	"compare-workers/internal/models"
)

const (
	DefaultTTL       = 24 * time.Hour
	DefaultKeyPrefix = "comparex:session:"
)

// Store keeps comparison sessions in Redis between the enter-items and
// rank-items steps.
type Store struct {
	redis  redis.Cmdable
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

func NewStore(rdb redis.Cmdable, ttl time.Duration, prefix string) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{redis: rdb, ttl: ttl, prefix: prefix, now: time.Now}
}

func (s *Store) Key(id string) string {
	return s.prefix + id
}

// Create stores a new session and returns it with its id and expiry set.
func (s *Store) Create(ctx context.Context, categoryID int64, itemIDs []string, prefs models.Preferences) (*models.ComparisonSession, error) {
	now := s.now().UTC()
	sess := &models.ComparisonSession{
		ID:          uuid.NewString(),
		CategoryID:  categoryID,
		ItemIDs:     itemIDs,
		Preferences: prefs,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) Save(ctx context.Context, sess *models.ComparisonSession) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return errors.NewSessionStoreFailedError(err)
	}
	if err := s.redis.Set(ctx, s.Key(sess.ID), payload, s.ttl).Err(); err != nil {
		return errors.NewSessionStoreFailedError(err)
	}
	return nil
}

// Load returns SESSION_NOT_FOUND for unknown or expired sessions.
func (s *Store) Load(ctx context.Context, id string) (*models.ComparisonSession, error) {
	raw, err := s.redis.Get(ctx, s.Key(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewSessionStoreFailedError(err)
	}

	var sess models.ComparisonSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, errors.NewSessionStoreFailedError(err)
	}
	if sess.IsExpired() {
		return nil, errors.NewSessionNotFoundError(id)
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, s.Key(id)).Err(); err != nil {
		return errors.NewSessionStoreFailedError(err)
	}
	return nil
}
