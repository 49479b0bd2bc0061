package models

import (
	"sort"
	"time"
)

// Session represents one game instance keyed by its game code
type Session struct {
	// Code is the short opaque game code players use to join
	Code string

	// Phase is the current stage of the game
	Phase Phase

	// Round is the 1-based round number, 0 while in the lobby
	Round int

	// CurrentWord is the prompt for the round, only set while playing
	CurrentWord string

	// LastWord is the prompt of the most recently scored round
	LastWord string

	// WinnerID is the winning player, only set once finished
	WinnerID string

	// Players maps player ID to player
	Players map[string]*Player

	// CreatedAt is when the session was created
	CreatedAt time.Time

	// UpdatedAt is when the session was last mutated
	UpdatedAt time.Time
}

// NewSession returns an empty session in the lobby
func NewSession(code string, now time.Time) *Session {
	return &Session{
		Code:      code,
		Phase:     PhaseLobby,
		Players:   make(map[string]*Player),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	out := *s
	out.Players = make(map[string]*Player, len(s.Players))
	for id, p := range s.Players {
		cp := *p
		out.Players[id] = &cp
	}

	return &out
}

// PlayersBySeat returns the players ordered by join order
func (s *Session) PlayersBySeat() []*Player {
	players := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, p)
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].Seat < players[j].Seat
	})

	return players
}

// NextSeat returns the seat for the next player to join
func (s *Session) NextSeat() int {
	next := 0
	for _, p := range s.Players {
		if p.Seat >= next {
			next = p.Seat + 1
		}
	}
	return next
}

// Winner returns the winning player, or nil if the game is not finished
func (s *Session) Winner() *Player {
	if s.WinnerID == "" {
		return nil
	}
	return s.Players[s.WinnerID]
}
