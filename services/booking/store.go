package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autobid/models"
	"autobid/utils"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
)

// WizardStore persists wizard state between requests.
type WizardStore interface {
	// Create stores a new wizard. It fails if the id is already taken.
	Create(ctx context.Context, state *models.WizardState, ttl time.Duration) error
	Get(ctx context.Context, wizardID string) (*models.WizardState, error)
	// Save overwrites an existing wizard and refreshes its TTL. A wizard that
	// has been deleted is never brought back. The stored version must match
	// state.Version or ErrConflict is returned; on success state.Version is
	// incremented.
	Save(ctx context.Context, state *models.WizardState, ttl time.Duration) error
	Delete(ctx context.Context, wizardID string) error
	AcquireSubmitLock(ctx context.Context, wizardID string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, wizardID string) error
	SubmitLocked(ctx context.Context, wizardID string) (bool, error)
}

// RedisWizardStore keeps each wizard as a JSON document with a TTL.
type RedisWizardStore struct {
	client *redis.Client
}

func NewRedisWizardStore(client *redis.Client) *RedisWizardStore {
	return &RedisWizardStore{client: client}
}

func wizardKey(id string) string { return utils.WizardCachePrefix + id }
func lockKey(id string) string   { return utils.WizardCachePrefix + id + utils.SubmitLockSuffix }

func (s *RedisWizardStore) Create(ctx context.Context, state *models.WizardState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard: %w", err)
	}
	ok, err := s.client.SetNX(ctx, wizardKey(state.ID), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store wizard: %w", err)
	}
	if !ok {
		return fmt.Errorf("wizard %s already exists", state.ID)
	}
	return nil
}

func (s *RedisWizardStore) Get(ctx context.Context, wizardID string) (*models.WizardState, error) {
	data, err := s.client.Get(ctx, wizardKey(wizardID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrWizardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard: %w", err)
	}
	var state models.WizardState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse wizard: %w", err)
	}
	return &state, nil
}

func (s *RedisWizardStore) Save(ctx context.Context, state *models.WizardState, ttl time.Duration) error {
	next := *state
	next.Version++
	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard: %w", err)
	}

	key := wizardKey(state.ID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrWizardNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load wizard: %w", err)
		}
		var current struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(stored, &current); err != nil {
			return fmt.Errorf("failed to parse wizard: %w", err)
		}
		if current.Version != state.Version {
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, key)
	switch {
	case errors.Is(err, redis.TxFailedErr):
		return ErrConflict
	case errors.Is(err, ErrWizardNotFound), errors.Is(err, ErrConflict):
		return err
	case err != nil:
		return fmt.Errorf("failed to store wizard: %w", err)
	}
	state.Version = next.Version
	return nil
}

func (s *RedisWizardStore) Delete(ctx context.Context, wizardID string) error {
	if err := s.client.Del(ctx, wizardKey(wizardID), lockKey(wizardID)).Err(); err != nil {
		return fmt.Errorf("failed to delete wizard: %w", err)
	}
	return nil
}

func (s *RedisWizardStore) AcquireSubmitLock(ctx context.Context, wizardID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockKey(wizardID), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	return ok, nil
}

func (s *RedisWizardStore) ReleaseSubmitLock(ctx context.Context, wizardID string) error {
	if err := s.client.Del(ctx, lockKey(wizardID)).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}
	return nil
}

func (s *RedisWizardStore) SubmitLocked(ctx context.Context, wizardID string) (bool, error) {
	n, err := s.client.Exists(ctx, lockKey(wizardID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check submit lock: %w", err)
	}
	return n > 0, nil
}
