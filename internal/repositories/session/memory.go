package session

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

// entry guards one session so updates to different codes never contend
type entry struct {
	mu      sync.Mutex
	session *models.Session
	removed bool
}

// memoryRepository implements the Repository interface in process memory
type memoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewMemory creates a new in-memory session repository
func NewMemory() *memoryRepository {
	return &memoryRepository{
		sessions: make(map[string]*entry),
	}
}

func (r *memoryRepository) lookup(code string) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[code]
}

// CreateSession stores a copy of a new session
func (r *memoryRepository) CreateSession(ctx context.Context, input *CreateSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}
	if input.Session.Code == "" {
		return errors.New("game code cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[input.Session.Code]; ok {
		return ErrSessionExists
	}

	r.sessions[input.Session.Code] = &entry{session: input.Session.Clone()}
	return nil
}

// GetSession returns a copy of the stored session
func (r *memoryRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.GameCode == "" {
		return nil, errors.New("input and game code cannot be empty")
	}

	e := r.lookup(input.GameCode)
	if e == nil {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, ErrSessionNotFound
	}

	return e.session.Clone(), nil
}

// UpdateSession runs Mutate under the session's lock
func (r *memoryRepository) UpdateSession(ctx context.Context, input *UpdateSessionInput) (*UpdateSessionOutput, error) {
	if input == nil || input.GameCode == "" || input.Mutate == nil {
		return nil, errors.New("input, game code and mutate cannot be empty")
	}

	e := r.lookup(input.GameCode)
	if e == nil {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, ErrSessionNotFound
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	working := e.session.Clone()
	if err := input.Mutate(working); err != nil {
		return nil, err
	}
	e.session = working

	return &UpdateSessionOutput{Session: working.Clone()}, nil
}

// RemoveIdle deletes every session not updated since input.Before
func (r *memoryRepository) RemoveIdle(ctx context.Context, input *RemoveIdleInput) (*RemoveIdleOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := []string{}
	for code, e := range r.sessions {
		e.mu.Lock()
		if e.session.UpdatedAt.Before(input.Before) {
			e.removed = true
			delete(r.sessions, code)
			removed = append(removed, code)
		}
		e.mu.Unlock()
	}
	sort.Strings(removed)

	return &RemoveIdleOutput{Removed: removed}, nil
}
