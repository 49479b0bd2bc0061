package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/mindmeld/internal/common/clock"
	"github.com/KirkDiggler/mindmeld/internal/common/code"
	"github.com/KirkDiggler/mindmeld/internal/common/uuid"
	"github.com/KirkDiggler/mindmeld/internal/events"
	"github.com/KirkDiggler/mindmeld/internal/models"
	"github.com/KirkDiggler/mindmeld/internal/repositories/rounds"
	"github.com/KirkDiggler/mindmeld/internal/repositories/session"
	"github.com/KirkDiggler/mindmeld/internal/scoring"
)

// service implements the Service interface
type service struct {
	sessionRepo   session.Repository
	roundRepo     rounds.Repository
	publisher     events.Publisher
	clock         clock.Clock
	idGenerator   uuid.Generator
	codeGenerator code.Generator
	rules         *rules
	logger        zerolog.Logger
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}
	if cfg.RoundRepo == nil {
		return nil, ErrNilRoundRepo
	}
	if cfg.Picker == nil {
		return nil, ErrNilPicker
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.IDGenerator == nil {
		return nil, ErrNilIDGenerator
	}
	if cfg.CodeGenerator == nil {
		return nil, ErrNilCodeGenerator
	}

	minPlayers := cfg.MinPlayers
	if minPlayers == 0 {
		minPlayers = DefaultMinPlayers
	}
	if minPlayers < 1 {
		return nil, ErrBadMinPlayers
	}

	var scorer scoring.Scorer = scoring.NewMatchScorer()
	if cfg.Scorer != nil {
		scorer = cfg.Scorer
	}

	terminator := scoring.AnyOf(
		scoring.RoundLimit{Rounds: DefaultMaxRounds},
		scoring.ScoreTarget{Target: DefaultScoreTarget},
	)
	if cfg.Terminator != nil {
		terminator = cfg.Terminator
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Publisher != nil {
		publisher = cfg.Publisher
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &service{
		sessionRepo:   cfg.SessionRepo,
		roundRepo:     cfg.RoundRepo,
		publisher:     publisher,
		clock:         cfg.Clock,
		idGenerator:   cfg.IDGenerator,
		codeGenerator: cfg.CodeGenerator,
		rules: &rules{
			minPlayers: minPlayers,
			picker:     cfg.Picker,
			scorer:     scorer,
			terminator: terminator,
		},
		logger: logger.With().Str("component", "game").Logger(),
	}, nil
}

// CreateGame allocates a fresh game code and an empty lobby
func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		gameCode, err := s.codeGenerator.NewCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate game code: %w", err)
		}

		err = s.sessionRepo.CreateSession(ctx, &session.CreateSessionInput{
			Session: models.NewSession(gameCode, s.clock.Now()),
		})
		if errors.Is(err, session.ErrSessionExists) {
			s.logger.Debug().Str("game_code", gameCode).Msg("game code collision, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}

		s.logger.Info().Str("game_code", gameCode).Msg("game created")

		return &CreateGameOutput{GameCode: gameCode}, nil
	}

	return nil, ErrCodeExhausted
}

// JoinGame adds a player to a game that is still in the lobby
func (s *service) JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.GameCode == "" {
		return nil, ErrEmptyGameCode
	}
	name := strings.TrimSpace(input.PlayerName)
	if name == "" {
		return nil, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}

	playerID := s.idGenerator.NewPlayerID()

	var seat int
	_, err := s.update(ctx, input.GameCode, func(sess *models.Session, now time.Time) (*transition, error) {
		p, err := s.rules.join(sess, playerID, name)
		if err != nil {
			return nil, err
		}
		seat = p.Seat
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("game_code", input.GameCode).
		Str("player_id", playerID).
		Str("player_name", name).
		Msg("player joined")

	return &JoinGameOutput{PlayerID: playerID, Seat: seat}, nil
}

// Ready marks a lobby player as ready and starts the first round once everyone is
func (s *service) Ready(ctx context.Context, input *ReadyInput) (*ReadyOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if err := validatePlayerInput(input.GameCode, input.PlayerID); err != nil {
		return nil, err
	}

	sess, err := s.update(ctx, input.GameCode, func(sess *models.Session, now time.Time) (*transition, error) {
		return s.rules.ready(sess, input.PlayerID)
	})
	if err != nil {
		return nil, err
	}

	return &ReadyOutput{
		Phase:   sess.Phase,
		Started: sess.Phase.IsPlaying(),
	}, nil
}

// SubmitAnswer records a player's answer and scores the round once everyone has answered
func (s *service) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if err := validatePlayerInput(input.GameCode, input.PlayerID); err != nil {
		return nil, err
	}
	answer := NormalizeAnswer(input.Answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}
	if utf8.RuneCountInString(answer) > MaxAnswerLength {
		return nil, ErrAnswerTooLong
	}

	var closed bool
	sess, err := s.update(ctx, input.GameCode, func(sess *models.Session, now time.Time) (*transition, error) {
		t, err := s.rules.submit(sess, input.PlayerID, answer, now)
		closed = t != nil
		return t, err
	})
	if err != nil {
		return nil, err
	}

	return &SubmitAnswerOutput{
		Phase:        sess.Phase,
		RoundClosed:  closed,
		StoredAnswer: answer,
	}, nil
}

// NextRound marks a player as done with the scoreboard and advances once everyone is
func (s *service) NextRound(ctx context.Context, input *NextRoundInput) (*NextRoundOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if err := validatePlayerInput(input.GameCode, input.PlayerID); err != nil {
		return nil, err
	}

	var advanced bool
	sess, err := s.update(ctx, input.GameCode, func(sess *models.Session, now time.Time) (*transition, error) {
		t, err := s.rules.next(sess, input.PlayerID)
		advanced = t != nil
		return t, err
	})
	if err != nil {
		return nil, err
	}

	return &NextRoundOutput{
		Phase:    sess.Phase,
		Advanced: advanced,
		WinnerID: sess.WinnerID,
	}, nil
}

// NormalizeAnswer trims and lower-cases an answer so that matching is
// insensitive to case and surrounding whitespace
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// mutation is one state machine step applied to a working copy
type mutation func(sess *models.Session, now time.Time) (*transition, error)

// update runs fn against the session under the repository's per-session
// serialization, then records the side effects of any phase change
func (s *service) update(ctx context.Context, gameCode string, fn mutation) (*models.Session, error) {
	var applied *transition

	out, err := s.sessionRepo.UpdateSession(ctx, &session.UpdateSessionInput{
		GameCode: gameCode,
		Mutate: func(sess *models.Session) error {
			// the repository may run this more than once on conflict
			applied = nil

			now := s.clock.Now()
			t, err := fn(sess, now)
			if err != nil {
				return err
			}
			if t != nil && !t.from.CanTransitionTo(t.to) {
				return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, t.from, t.to)
			}
			sess.UpdatedAt = now
			applied = t
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, ErrGameNotFound
		}
		var ge GameError
		if errors.As(err, &ge) {
			return nil, ge
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if applied != nil {
		s.afterTransition(ctx, out.Session, applied)
	}

	return out.Session, nil
}

// afterTransition writes the round ledger and announces the phase change.
// Failures are logged; the action itself already succeeded.
func (s *service) afterTransition(ctx context.Context, sess *models.Session, t *transition) {
	s.logger.Info().
		Str("game_code", sess.Code).
		Str("from", t.from.String()).
		Str("to", t.to.String()).
		Int("round", sess.Round).
		Msg("phase changed")

	if t.round != nil {
		err := s.roundRepo.AddRoundRecord(ctx, &rounds.AddRoundRecordInput{Record: t.round})
		if err != nil {
			s.logger.Error().Err(err).
				Str("game_code", sess.Code).
				Int("round", t.round.Round).
				Msg("failed to record round")
		}
	}

	err := s.publisher.PublishPhaseChanged(ctx, &events.PhaseChanged{
		GameCode: sess.Code,
		From:     t.from,
		To:       t.to,
		Round:    sess.Round,
		WinnerID: sess.WinnerID,
		At:       sess.UpdatedAt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("game_code", sess.Code).Msg("failed to publish phase change")
	}
}

func validatePlayerInput(gameCode, playerID string) error {
	if gameCode == "" {
		return ErrEmptyGameCode
	}
	if playerID == "" {
		return ErrEmptyPlayerID
	}
	return nil
}
