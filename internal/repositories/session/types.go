package session

import (
	"time"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

type CreateSessionInput struct {
	Session *models.Session
}

type GetSessionInput struct {
	GameCode string
}

// MutateFunc changes a session in place. Returning an error discards the change.
type MutateFunc func(session *models.Session) error

type UpdateSessionInput struct {
	GameCode string
	Mutate   MutateFunc
}

type UpdateSessionOutput struct {
	// Session is a copy of the state as saved
	Session *models.Session
}

type RemoveIdleInput struct {
	// Before removes every session last updated before this time
	Before time.Time
}

type RemoveIdleOutput struct {
	Removed []string
}
