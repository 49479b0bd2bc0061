package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/mindmeld/internal/repositories/session Repository

import (
	"context"
	"errors"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

var (
	// ErrSessionNotFound is returned when no session exists for a game code
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned when creating a session whose code is taken
	ErrSessionExists = errors.New("session already exists")
)

// Repository owns the authoritative state of every active session.
// Implementations serialize UpdateSession per game code: at most one Mutate
// runs against a given session at a time, and it always sees the latest state.
type Repository interface {
	// CreateSession stores a new session, failing with ErrSessionExists on a code collision
	CreateSession(ctx context.Context, input *CreateSessionInput) error

	// GetSession returns a copy of the session for a game code
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// UpdateSession applies Mutate to the latest session and saves the result
	UpdateSession(ctx context.Context, input *UpdateSessionInput) (*UpdateSessionOutput, error)
}
