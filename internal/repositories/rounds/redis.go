package rounds

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
	gameRoundsKeyPrefix = "game_rounds:"
)

// Config holds configuration for the Redis round ledger
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// TTL expires a game's ledger, refreshed on every append. Zero keeps it forever.
	TTL time.Duration
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed round ledger
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
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

func gameRoundsKey(code string) string {
	return fmt.Sprintf("%s%s", gameRoundsKeyPrefix, code)
}

// AddRoundRecord appends a round record to the game's list
func (r *redisRepository) AddRoundRecord(ctx context.Context, input *AddRoundRecordInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}
	if input.Record.GameCode == "" {
		return errors.New("game code cannot be empty")
	}

	recordJSON, err := json.Marshal(input.Record)
	if err != nil {
		return fmt.Errorf("failed to marshal round record: %w", err)
	}

	key := gameRoundsKey(input.Record.GameCode)

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, recordJSON)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add round record: %w", err)
	}

	return nil
}

// GetRoundRecordsForGame retrieves all round records for a game
func (r *redisRepository) GetRoundRecordsForGame(ctx context.Context, input *GetRoundRecordsForGameInput) (*GetRoundRecordsForGameOutput, error) {
	if input == nil || input.GameCode == "" {
		return nil, errors.New("input and game code cannot be empty")
	}

	items, err := r.client.LRange(ctx, gameRoundsKey(input.GameCode), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round records: %w", err)
	}

	records := make([]*models.RoundRecord, 0, len(items))
	for _, item := range items {
		var record models.RoundRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal round record: %w", err)
		}
		records = append(records, &record)
	}

	return &GetRoundRecordsForGameOutput{Records: records}, nil
}

// DeleteRoundRecords removes a game's round list
func (r *redisRepository) DeleteRoundRecords(ctx context.Context, input *DeleteRoundRecordsInput) error {
	if input == nil || input.GameCode == "" {
		return errors.New("input and game code cannot be empty")
	}

	if err := r.client.Del(ctx, gameRoundsKey(input.GameCode)).Err(); err != nil {
		return fmt.Errorf("failed to delete round records: %w", err)
	}

	return nil
}
