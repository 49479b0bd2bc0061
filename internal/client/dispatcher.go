package client

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// Poller refreshes the rendered view from the server
type Poller interface {
	Poll(ctx context.Context, sc SessionContext) (RenderPhase, error)
}

// DispatcherConfig holds the configuration for a Dispatcher
type DispatcherConfig struct {
	Transport Transport
	Poller    Poller
	Renderer  Renderer
	Logger    *zerolog.Logger
}

// Dispatcher turns player intents into single requests. After every
// successful request it polls, so the view only ever shows server state.
// Failures are alerted and leave the view as it was.
type Dispatcher struct {
	transport Transport
	poller    Poller
	renderer  Renderer
	logger    zerolog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(cfg *DispatcherConfig) (*Dispatcher, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Transport == nil {
		return nil, errors.New("transport cannot be nil")
	}

	if cfg.Poller == nil {
		return nil, errors.New("poller cannot be nil")
	}

	if cfg.Renderer == nil {
		return nil, errors.New("renderer cannot be nil")
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Dispatcher{
		transport: cfg.Transport,
		poller:    cfg.Poller,
		renderer:  cfg.Renderer,
		logger:    logger.With().Str("component", "dispatcher").Logger(),
	}, nil
}

// Create starts a new game and joins it as name
func (d *Dispatcher) Create(ctx context.Context, name string) (SessionContext, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SessionContext{}, d.fail("create", validationError("name cannot be empty"))
	}

	gameCode, err := d.transport.Create(ctx)
	if err != nil {
		return SessionContext{}, d.fail("create", err)
	}

	return d.Join(ctx, name, gameCode)
}

// Join enters an existing game as name
func (d *Dispatcher) Join(ctx context.Context, name, gameCode string) (SessionContext, error) {
	name = strings.TrimSpace(name)
	gameCode = strings.TrimSpace(gameCode)
	if name == "" {
		return SessionContext{}, d.fail("join", validationError("name cannot be empty"))
	}
	if gameCode == "" {
		return SessionContext{}, d.fail("join", validationError("game code cannot be empty"))
	}

	playerID, err := d.transport.Join(ctx, gameCode, name)
	if err != nil {
		return SessionContext{}, d.fail("join", err)
	}

	sc := SessionContext{GameCode: gameCode, PlayerID: playerID}
	d.logger.Info().Str("game_code", gameCode).Str("player_id", playerID).Msg("joined game")

	_, _ = d.poller.Poll(ctx, sc)
	return sc, nil
}

// Ready marks the player ready in the lobby
func (d *Dispatcher) Ready(ctx context.Context, sc SessionContext) error {
	return d.act(ctx, "ready", sc, func() error {
		return d.transport.Ready(ctx, sc)
	})
}

// Submit answers the current prompt
func (d *Dispatcher) Submit(ctx context.Context, sc SessionContext, answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return d.fail("submit", validationError("answer cannot be empty"))
	}

	return d.act(ctx, "submit", sc, func() error {
		return d.transport.Submit(ctx, sc, answer)
	})
}

// Next asks for the next round from the scoreboard
func (d *Dispatcher) Next(ctx context.Context, sc SessionContext) error {
	return d.act(ctx, "next", sc, func() error {
		return d.transport.Next(ctx, sc)
	})
}

func (d *Dispatcher) act(ctx context.Context, action string, sc SessionContext, send func() error) error {
	if err := sc.validate(); err != nil {
		return d.fail(action, err)
	}

	if err := send(); err != nil {
		return d.fail(action, err)
	}

	_, _ = d.poller.Poll(ctx, sc)
	return nil
}

func (d *Dispatcher) fail(action string, err error) error {
	d.logger.Debug().Err(err).Str("action", action).Str("kind", string(KindOf(err))).Msg("action failed")
	d.renderer.Alert(err)
	return err
}
