package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/KirkDiggler/mindmeld/internal/common/clock"
	"github.com/KirkDiggler/mindmeld/internal/common/code"
	"github.com/KirkDiggler/mindmeld/internal/common/uuid"
	"github.com/KirkDiggler/mindmeld/internal/events"
	"github.com/KirkDiggler/mindmeld/internal/handlers/web"
	"github.com/KirkDiggler/mindmeld/internal/repositories/rounds"
	"github.com/KirkDiggler/mindmeld/internal/repositories/session"
	"github.com/KirkDiggler/mindmeld/internal/services/game"
	"github.com/KirkDiggler/mindmeld/internal/words"
)

func newLogger(cfg *Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.logLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --log-level: %w", err)
	}

	var logger zerolog.Logger
	if cfg.verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

// stores picks the session and round repositories. The returned cleanup
// closes whatever connections were opened.
func stores(ctx context.Context, cfg *Config, logger zerolog.Logger) (session.Repository, rounds.Repository, func(), error) {
	if cfg.store == storeMemory {
		return session.NewMemory(), rounds.NewMemory(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.redisAddr,
		Password: cfg.redisPassword,
		DB:       cfg.redisDB,
	})
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing redis client")
		}
	}

	if err := client.Ping(ctx).Err(); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.redisAddr, err)
	}

	sessions, err := session.NewRedis(&session.Config{RedisClient: client, TTL: cfg.sessionTimeout})
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	history, err := rounds.NewRedis(&rounds.Config{RedisClient: client, TTL: cfg.sessionTimeout})
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	logger.Info().Str("addr", cfg.redisAddr).Int("db", cfg.redisDB).Msg("using redis store")
	return sessions, history, cleanup, nil
}

func publisher(cfg *Config, logger zerolog.Logger) (events.Publisher, func(), error) {
	if cfg.natsURL == "" {
		return events.NopPublisher{}, func() {}, nil
	}

	conn, err := events.Connect(cfg.natsURL, logger)
	if err != nil {
		return nil, nil, err
	}
	pub, err := events.NewNATS(&events.NATSConfig{Conn: conn, SubjectPrefix: cfg.natsSubject})
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	logger.Info().Str("url", cfg.natsURL).Str("subject", cfg.natsSubject).Msg("publishing phase changes")
	return pub, func() {
		if err := conn.Drain(); err != nil {
			logger.Warn().Err(err).Msg("draining NATS connection")
		}
	}, nil
}

func picker(cfg *Config) (words.Picker, error) {
	wordsCfg := &words.Config{Seed: cfg.seed}
	if cfg.wordsFile != "" {
		list, err := words.LoadFile(cfg.wordsFile)
		if err != nil {
			return nil, err
		}
		wordsCfg.Words = list
	}
	return words.New(wordsCfg)
}

// reap removes idle games until ctx is done. Only needed for the memory
// store since redis expires keys on its own.
func reap(ctx context.Context, svc game.Service, idleFor time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(idleFor / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out, err := svc.RemoveIdleGames(ctx, &game.RemoveIdleGamesInput{IdleFor: idleFor})
			if err != nil {
				logger.Error().Err(err).Msg("removing idle games")
				continue
			}
			if len(out.Removed) > 0 {
				logger.Info().Strs("games", out.Removed).Msg("removed idle games")
			}
		}
	}
}

func serve(ctx context.Context, cfg *Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	sessions, history, closeStore, err := stores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	pub, closePublisher, err := publisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	prompts, err := picker(cfg)
	if err != nil {
		return err
	}

	svc, err := game.New(&game.Config{
		MinPlayers:    cfg.minPlayers,
		SessionRepo:   sessions,
		RoundRepo:     history,
		Picker:        prompts,
		Terminator:    cfg.terminator(),
		Publisher:     pub,
		Clock:         clock.New(),
		IDGenerator:   uuid.New(),
		CodeGenerator: code.New(),
		Logger:        &logger,
	})
	if err != nil {
		return err
	}

	if cfg.store == storeMemory && cfg.sessionTimeout > 0 {
		go reap(ctx, svc, cfg.sessionTimeout, logger)
	}

	server, err := web.New(&web.Config{
		GameService:    svc,
		Addr:           cfg.addr(),
		PublicURL:      cfg.publicURL,
		AllowedOrigins: cfg.corsOrigins,
		Version:        releaseVersion,
		Logger:         &logger,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("addr", cfg.addr()).
		Str("store", cfg.store).
		Int("min_players", cfg.minPlayers).
		Int("max_rounds", cfg.maxRounds).
		Int("target_score", cfg.targetScore).
		Msg("starting mindmeld server")

	return server.Run(ctx)
}
