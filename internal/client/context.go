// Package client drives one player's view of a game: it sends actions,
// polls the authoritative snapshot and projects it to something to render.
package client

// SessionContext identifies the local player within one game. It is
// passed by value to every call and never mutated.
type SessionContext struct {
	GameCode string
	PlayerID string
}

func (c SessionContext) validate() error {
	if c.GameCode == "" {
		return validationError("game code cannot be empty")
	}
	if c.PlayerID == "" {
		return validationError("player id cannot be empty")
	}
	return nil
}
