package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/mindmeld/internal/scoring"
)

const (
	storeMemory = "memory"
	storeRedis  = "redis"
)

type Config struct {
	bind           string
	port           int
	publicURL      string
	store          string
	redisAddr      string
	redisPassword  string
	redisDB        int
	sessionTimeout time.Duration
	minPlayers     int
	maxRounds      int
	targetScore    int
	wordsFile      string
	seed           int64
	natsURL        string
	natsSubject    string
	corsOrigins    []string
	logLevel       string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.store != storeMemory && c.store != storeRedis {
		return fmt.Errorf("unknown store %q (must be %s or %s)", c.store, storeMemory, storeRedis)
	}
	if c.store == storeRedis && c.redisAddr == "" {
		return errors.New("--redis-addr is required with the redis store")
	}
	if c.sessionTimeout < 0 {
		return errors.New("--session-timeout cannot be negative")
	}
	if c.minPlayers < 1 {
		return fmt.Errorf("--min-players must be at least 1: %d", c.minPlayers)
	}
	if c.maxRounds < 0 || c.targetScore < 0 {
		return errors.New("--max-rounds and --target-score cannot be negative")
	}
	if c.maxRounds == 0 && c.targetScore == 0 {
		return errors.New("at least one of --max-rounds and --target-score must be set")
	}
	if _, err := zerolog.ParseLevel(c.logLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	return nil
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.bind, c.port)
}

// terminator ends the game on whichever enabled limit is reached first
func (c *Config) terminator() scoring.Terminator {
	var limits []scoring.Terminator
	if c.maxRounds > 0 {
		limits = append(limits, scoring.RoundLimit{Rounds: c.maxRounds})
	}
	if c.targetScore > 0 {
		limits = append(limits, scoring.ScoreTarget{Target: c.targetScore})
	}
	return scoring.AnyOf(limits...)
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MINDMELD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "mindmeld-server",
		Short:         "Serves the mindmeld word matching party game over HTTP.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: MINDMELD_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: MINDMELD_PORT)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "base URL encoded in join QR codes, derived from requests when empty (env: MINDMELD_PUBLIC_URL)")
	fs.StringVar(&cfg.store, "store", storeMemory, "session store, memory or redis (env: MINDMELD_STORE)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "localhost:6379", "redis address (env: MINDMELD_REDIS_ADDR)")
	fs.StringVar(&cfg.redisPassword, "redis-password", "", "redis password (env: MINDMELD_REDIS_PASSWORD)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "redis database number (env: MINDMELD_REDIS_DB)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle games are removed, 0 keeps them (env: MINDMELD_SESSION_TIMEOUT)")
	fs.IntVar(&cfg.minPlayers, "min-players", 2, "players needed before a game can start (env: MINDMELD_MIN_PLAYERS)")
	fs.IntVar(&cfg.maxRounds, "max-rounds", 5, "rounds per game, 0 for no limit (env: MINDMELD_MAX_ROUNDS)")
	fs.IntVar(&cfg.targetScore, "target-score", 20, "score that ends the game, 0 for no target (env: MINDMELD_TARGET_SCORE)")
	fs.StringVar(&cfg.wordsFile, "words-file", "", "YAML file with the prompt word list (env: MINDMELD_WORDS_FILE)")
	fs.Int64Var(&cfg.seed, "seed", 0, "seed for prompt selection, random when 0 (env: MINDMELD_SEED)")
	fs.StringVar(&cfg.natsURL, "nats-url", "", "NATS server for phase change events, disabled when empty (env: MINDMELD_NATS_URL)")
	fs.StringVar(&cfg.natsSubject, "nats-subject", "mindmeld.sessions", "subject prefix for phase change events (env: MINDMELD_NATS_SUBJECT)")
	fs.StringSliceVar(&cfg.corsOrigins, "cors-origins", nil, "origins allowed to call the API, all when empty (env: MINDMELD_CORS_ORIGINS)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "minimum log level (env: MINDMELD_LOG_LEVEL)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "human readable console logs (env: MINDMELD_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: MINDMELD_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("mindmeld v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
