package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/mindmeld/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis
	sessionKeyPrefix = "session:"

	// maxUpdateRetries bounds optimistic retries when concurrent writers race on one key
	maxUpdateRetries = 20
)

// ErrTooManyRetries is returned when an update keeps losing the optimistic race
var ErrTooManyRetries = errors.New("session update retries exhausted")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// TTL expires idle sessions, refreshed on every write. Zero keeps sessions forever.
	TTL time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.TTL < 0 {
		return nil, errors.New("ttl cannot be negative")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		ttl:    cfg.TTL,
	}, nil
}

func sessionKey(code string) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, code)
}

// CreateSession stores a new session unless the code is already taken
func (r *redisRepository) CreateSession(ctx context.Context, input *CreateSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}
	if input.Session.Code == "" {
		return errors.New("game code cannot be empty")
	}

	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, sessionKey(input.Session.Code), sessionJSON, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if !ok {
		return ErrSessionExists
	}

	return nil
}

// GetSession retrieves a session by game code from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.GameCode == "" {
		return nil, errors.New("input and game code cannot be empty")
	}

	sessionJSON, err := r.client.Get(ctx, sessionKey(input.GameCode)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return decodeSession(sessionJSON)
}

// UpdateSession runs Mutate inside a WATCH/MULTI transaction on the session key.
// If another writer commits first the transaction is retried against the new state.
func (r *redisRepository) UpdateSession(ctx context.Context, input *UpdateSessionInput) (*UpdateSessionOutput, error) {
	if input == nil || input.GameCode == "" || input.Mutate == nil {
		return nil, errors.New("input, game code and mutate cannot be empty")
	}

	key := sessionKey(input.GameCode)
	var saved *models.Session

	txf := func(tx *redis.Tx) error {
		sessionJSON, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}

		session, err := decodeSession(sessionJSON)
		if err != nil {
			return err
		}

		if err := input.Mutate(session); err != nil {
			return err
		}

		updatedJSON, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updatedJSON, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		saved = session
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return &UpdateSessionOutput{Session: saved}, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, ErrTooManyRetries
}

func decodeSession(data []byte) (*models.Session, error) {
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if !session.Phase.Valid() {
		return nil, fmt.Errorf("session %s has unknown phase %q", session.Code, session.Phase)
	}
	if session.Players == nil {
		session.Players = make(map[string]*models.Player)
	}
	return &session, nil
}
