package models

// Player represents a participant in a session
type Player struct {
	// ID is assigned when the player joins and is unique within the session
	ID string

	// Name is the display name given at join time
	Name string

	// Seat is the 0-based join order, used to break ties
	Seat int

	// Score is the cumulative score across rounds
	Score int

	// Ready is set in the lobby when the player wants to start
	Ready bool

	// Answer is the player's answer for the current round, empty until submitted
	Answer string

	// NextReady is set while scoring when the player wants the next round
	NextReady bool
}

// HasAnswered reports whether an answer is recorded for the current round
func (p *Player) HasAnswered() bool {
	return p.Answer != ""
}
