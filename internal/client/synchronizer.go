package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	DefaultInterval     = 2 * time.Second
	DefaultFastInterval = 500 * time.Millisecond
)

// Renderer shows render phases and alerts to the player
//
//go:generate mockgen -package=mocks -destination=mocks/mock_renderer.go github.com/KirkDiggler/mindmeld/internal/client Renderer
type Renderer interface {
	Render(phase RenderPhase)
	Alert(err error)
}

// SynchronizerConfig holds the configuration for a Synchronizer
type SynchronizerConfig struct {
	Transport Transport
	Renderer  Renderer

	// Clock drives the poll delay, the real clock when nil
	Clock clockwork.Clock

	// Interval is the delay after each completed poll
	Interval time.Duration

	// FastInterval replaces Interval while the player waits on others to answer
	FastInterval time.Duration

	Logger *zerolog.Logger
}

// Synchronizer keeps the local view in step with the server by polling
// the snapshot. A poll applies only if no newer poll has been applied.
type Synchronizer struct {
	transport    Transport
	renderer     Renderer
	clock        clockwork.Clock
	interval     time.Duration
	fastInterval time.Duration
	logger       zerolog.Logger

	wake chan struct{}

	mu      sync.Mutex
	issued  uint64
	applied uint64
	last    RenderPhase
}

// NewSynchronizer creates a new Synchronizer
func NewSynchronizer(cfg *SynchronizerConfig) (*Synchronizer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Transport == nil {
		return nil, errors.New("transport cannot be nil")
	}

	if cfg.Renderer == nil {
		return nil, errors.New("renderer cannot be nil")
	}

	if cfg.Interval < 0 || cfg.FastInterval < 0 {
		return nil, errors.New("poll intervals cannot be negative")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}

	fast := cfg.FastInterval
	if fast == 0 {
		fast = DefaultFastInterval
	}
	if fast > interval {
		fast = interval
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Synchronizer{
		transport:    cfg.Transport,
		renderer:     cfg.Renderer,
		clock:        clock,
		interval:     interval,
		fastInterval: fast,
		logger:       logger.With().Str("component", "synchronizer").Logger(),
		wake:         make(chan struct{}, 1),
	}, nil
}

// Run polls until the game is finished or ctx is done. Failed polls are
// alerted and polling carries on.
func (s *Synchronizer) Run(ctx context.Context, sc SessionContext) error {
	if sc.GameCode == "" {
		return validationError("game code cannot be empty")
	}

	for {
		phase, err := s.Poll(ctx, sc)
		if err == nil {
			if _, done := phase.(Finished); done {
				return nil
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		timer := s.clock.NewTimer(s.delay())
		select {
		case <-timer.Chan():
		case <-s.wake:
			stopAndDrainTimer(timer)
		case <-ctx.Done():
			stopAndDrainTimer(timer)
			return ctx.Err()
		}
	}
}

// Trigger wakes Run for an immediate poll
func (s *Synchronizer) Trigger() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Poll fetches one snapshot and renders its projection. It returns the
// phase that is current after the call, which is the newer one when a
// later poll has already been applied.
func (s *Synchronizer) Poll(ctx context.Context, sc SessionContext) (RenderPhase, error) {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	snapshot, err := s.transport.State(ctx, sc.GameCode)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Str("game_code", sc.GameCode).Msg("poll failed")
			s.renderer.Alert(err)
		}
		return nil, err
	}

	phase := Project(snapshot, sc.PlayerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		s.logger.Debug().Uint64("seq", seq).Uint64("applied", s.applied).Msg("discarding stale snapshot")
		return s.last, nil
	}
	s.applied = seq
	s.last = phase

	// rendering under the lock keeps renders in sequence order
	s.renderer.Render(phase)

	return phase, nil
}

// Current returns the last rendered phase, nil before the first poll
func (s *Synchronizer) Current() RenderPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Synchronizer) delay() time.Duration {
	if _, waiting := s.Current().(Submitted); waiting {
		return s.fastInterval
	}
	return s.interval
}

func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
