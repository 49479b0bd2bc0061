package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/mindmeld/internal/client"
)

// seat is one player's connection to a game
type seat struct {
	dispatcher *client.Dispatcher
	sync       *client.Synchronizer
	sc         client.SessionContext
}

// handle runs one typed command and reports whether the player quit.
// Failed actions are already alerted by the dispatcher.
func (s *seat) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		s.sync.Trigger()
	case "quit", "exit":
		return true
	case "ready":
		_ = s.dispatcher.Ready(ctx, s.sc)
	case "next":
		_ = s.dispatcher.Next(ctx, s.sc)
	default:
		_ = s.dispatcher.Submit(ctx, s.sc, line)
	}
	return false
}

func newLogger(cfg *Config) zerolog.Logger {
	if !cfg.debug {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}

func play(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	logger := newLogger(cfg)
	screen := newTerminal(out)

	transport, err := client.NewHTTP(&client.HTTPConfig{BaseURL: cfg.server, Timeout: cfg.timeout})
	if err != nil {
		return err
	}

	synchronizer, err := client.NewSynchronizer(&client.SynchronizerConfig{
		Transport:    transport,
		Renderer:     screen,
		Interval:     cfg.pollInterval,
		FastInterval: cfg.fastPollInterval,
		Logger:       &logger,
	})
	if err != nil {
		return err
	}

	dispatcher, err := client.NewDispatcher(&client.DispatcherConfig{
		Transport: transport,
		Poller:    synchronizer,
		Renderer:  screen,
		Logger:    &logger,
	})
	if err != nil {
		return err
	}

	var sc client.SessionContext
	if cfg.code == "" {
		sc, err = dispatcher.Create(ctx, cfg.name)
	} else {
		sc, err = dispatcher.Join(ctx, cfg.name, cfg.code)
	}
	if err != nil {
		return err
	}
	screen.joined(sc, cfg.joinURL(sc.GameCode))

	s := &seat{dispatcher: dispatcher, sync: synchronizer, sc: sc}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- synchronizer.Run(ctx, sc) }()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case err := <-done:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case line, ok := <-lines:
			if !ok || s.handle(ctx, line) {
				cancel()
				<-done
				return nil
			}
		}
	}
}
