package game

import "errors"

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// ErrIllegalTransition means a step tried to move between phases that are
// not connected. It is an internal fault, never a player mistake.
var ErrIllegalTransition = errors.New("illegal phase transition")

// Define errors
const (
	ErrGameNotFound     GameError = "game not found"
	ErrPlayerNotFound   GameError = "player not found"
	ErrInvalidPhase     GameError = "action not allowed in the current phase"
	ErrEmptyGameCode    GameError = "game code cannot be empty"
	ErrEmptyPlayerID    GameError = "player id cannot be empty"
	ErrEmptyName        GameError = "player name cannot be empty"
	ErrNameTooLong      GameError = "player name is too long"
	ErrEmptyAnswer      GameError = "answer cannot be empty"
	ErrAnswerTooLong    GameError = "answer is too long"
	ErrNilInput         GameError = "input cannot be nil"
	ErrCodeExhausted    GameError = "could not allocate a unique game code"
	ErrNilConfig        GameError = "config cannot be nil"
	ErrNilSessionRepo   GameError = "session repository cannot be nil"
	ErrNilRoundRepo     GameError = "round repository cannot be nil"
	ErrNilPicker        GameError = "word picker cannot be nil"
	ErrNilClock         GameError = "clock cannot be nil"
	ErrNilIDGenerator   GameError = "ID generator cannot be nil"
	ErrNilCodeGenerator GameError = "code generator cannot be nil"
	ErrBadMinPlayers    GameError = "min players must be at least 1"
)

// ErrorKind classifies an error for callers that need to react to it
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindInvalidPhase ErrorKind = "invalid_phase"
	KindInternal     ErrorKind = "internal"
)

var errorKinds = map[GameError]ErrorKind{
	ErrGameNotFound:   KindNotFound,
	ErrPlayerNotFound: KindNotFound,
	ErrInvalidPhase:   KindInvalidPhase,
	ErrEmptyGameCode:  KindValidation,
	ErrEmptyPlayerID:  KindValidation,
	ErrEmptyName:      KindValidation,
	ErrNameTooLong:    KindValidation,
	ErrEmptyAnswer:    KindValidation,
	ErrAnswerTooLong:  KindValidation,
	ErrNilInput:       KindValidation,
}

// KindOf returns the kind of err. Anything that is not a known game
// error is internal.
func KindOf(err error) ErrorKind {
	var ge GameError
	if errors.As(err, &ge) {
		if kind, ok := errorKinds[ge]; ok {
			return kind
		}
	}
	return KindInternal
}
