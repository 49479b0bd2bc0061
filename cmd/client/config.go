package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/mindmeld/internal/client"
)

type Config struct {
	server           string
	name             string
	code             string
	pollInterval     time.Duration
	fastPollInterval time.Duration
	timeout          time.Duration
	debug            bool
	version          bool
}

func (c *Config) validate() error {
	u, err := url.Parse(c.server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid --server %q (must be an http or https URL)", c.server)
	}
	if strings.TrimSpace(c.name) == "" {
		return errors.New("--name is required")
	}
	if c.pollInterval <= 0 || c.fastPollInterval <= 0 {
		return errors.New("poll intervals must be positive")
	}
	if c.timeout <= 0 {
		return errors.New("--timeout must be positive")
	}
	return nil
}

// joinURL is the link encoded in the QR code shown after joining
func (c *Config) joinURL(gameCode string) string {
	return strings.TrimRight(c.server, "/") + "/?game_code=" + url.QueryEscape(gameCode)
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MINDMELD_CLIENT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "mindmeld [--code GAME_CODE] --name NAME",
		Short: "Plays mindmeld from the terminal.",
		Long: `Plays mindmeld from the terminal.

Without --code a new game is created and its code is printed for others
to join. Type 'ready' in the lobby, answer each prompt with a single
word, and type 'next' from the scoreboard.`,
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return play(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.server, "server", "s", "http://localhost:8080", "game server URL (env: MINDMELD_CLIENT_SERVER)")
	fs.StringVarP(&cfg.name, "name", "n", "", "your display name (env: MINDMELD_CLIENT_NAME)")
	fs.StringVarP(&cfg.code, "code", "c", "", "game code to join, creates a new game when empty (env: MINDMELD_CLIENT_CODE)")
	fs.DurationVar(&cfg.pollInterval, "poll-interval", client.DefaultInterval, "delay between state polls (env: MINDMELD_CLIENT_POLL_INTERVAL)")
	fs.DurationVar(&cfg.fastPollInterval, "fast-poll-interval", client.DefaultFastInterval, "delay between polls while waiting on other answers (env: MINDMELD_CLIENT_FAST_POLL_INTERVAL)")
	fs.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "timeout for each request (env: MINDMELD_CLIENT_TIMEOUT)")
	fs.BoolVar(&cfg.debug, "debug", false, "log requests to stderr (env: MINDMELD_CLIENT_DEBUG)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: MINDMELD_CLIENT_VERSION)")

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
