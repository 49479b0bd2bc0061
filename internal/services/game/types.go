package game

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/KirkDiggler/mindmeld/internal/common/clock"
	"github.com/KirkDiggler/mindmeld/internal/common/code"
	"github.com/KirkDiggler/mindmeld/internal/common/uuid"
	"github.com/KirkDiggler/mindmeld/internal/events"
	"github.com/KirkDiggler/mindmeld/internal/models"
	"github.com/KirkDiggler/mindmeld/internal/repositories/rounds"
	"github.com/KirkDiggler/mindmeld/internal/repositories/session"
	"github.com/KirkDiggler/mindmeld/internal/scoring"
	"github.com/KirkDiggler/mindmeld/internal/words"
)

const (
	// DefaultMinPlayers is the smallest lobby that can start a game
	DefaultMinPlayers = 2

	// DefaultMaxRounds ends the game after this many rounds
	DefaultMaxRounds = 5

	// DefaultScoreTarget ends the game once a player reaches it
	DefaultScoreTarget = 20

	// MaxNameLength bounds player names, in runes
	MaxNameLength = 24

	// MaxAnswerLength bounds answers, in runes
	MaxAnswerLength = 40

	// maxCodeAttempts bounds retries when a generated code is already taken
	maxCodeAttempts = 8
)

// Config holds configuration for the game service
type Config struct {
	// MinPlayers is how many ready players the lobby needs, DefaultMinPlayers when 0
	MinPlayers int

	// SessionRepo stores live sessions
	SessionRepo session.Repository

	// RoundRepo stores scored rounds
	RoundRepo rounds.Repository

	// Picker draws the prompt word for each round
	Picker words.Picker

	// Scorer awards points when a round closes, a MatchScorer when nil
	Scorer scoring.Scorer

	// Terminator decides whether the game ends after a round, the default
	// round limit or score target when nil
	Terminator scoring.Terminator

	// Publisher receives phase changes, dropped when nil
	Publisher events.Publisher

	// Clock provides time
	Clock clock.Clock

	// IDGenerator assigns player IDs
	IDGenerator uuid.Generator

	// CodeGenerator produces game codes
	CodeGenerator code.Generator

	// Logger is used for non-fatal failures, silent when nil
	Logger *zerolog.Logger
}

// CreateGameInput contains parameters for creating a game
type CreateGameInput struct{}

// CreateGameOutput contains the result of creating a game
type CreateGameOutput struct {
	GameCode string
}

// JoinGameInput contains parameters for joining a game
type JoinGameInput struct {
	GameCode   string
	PlayerName string
}

// JoinGameOutput contains the result of joining a game
type JoinGameOutput struct {
	PlayerID string
	Seat     int
}

// ReadyInput contains parameters for marking a player ready
type ReadyInput struct {
	GameCode string
	PlayerID string
}

// ReadyOutput contains the phase after the action
type ReadyOutput struct {
	Phase   models.Phase
	Started bool
}

// SubmitAnswerInput contains parameters for answering the current prompt
type SubmitAnswerInput struct {
	GameCode string
	PlayerID string
	Answer   string
}

// SubmitAnswerOutput contains the phase after the action
type SubmitAnswerOutput struct {
	Phase        models.Phase
	RoundClosed  bool
	StoredAnswer string
}

// NextRoundInput contains parameters for leaving the scoreboard
type NextRoundInput struct {
	GameCode string
	PlayerID string
}

// NextRoundOutput contains the phase after the action
type NextRoundOutput struct {
	Phase    models.Phase
	Advanced bool
	WinnerID string
}

// GetStateInput contains parameters for reading a session
type GetStateInput struct {
	GameCode string
}

// GetStateOutput contains a snapshot of the session
type GetStateOutput struct {
	Session *models.Session
}

// GetHistoryInput contains parameters for reading past rounds
type GetHistoryInput struct {
	GameCode string
}

// GetHistoryOutput contains the scored rounds of a game
type GetHistoryOutput struct {
	Rounds []*models.RoundRecord
}

// RemoveIdleGamesInput contains parameters for expiring sessions
type RemoveIdleGamesInput struct {
	IdleFor time.Duration
}

// RemoveIdleGamesOutput lists the codes that were removed
type RemoveIdleGamesOutput struct {
	Removed []string
}
