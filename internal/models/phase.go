package models

// Phase represents the current stage of a session
type Phase string

const (
	// PhaseLobby indicates the session is accepting players and waiting for everyone to be ready
	PhaseLobby Phase = "lobby"

	// PhasePlaying indicates a prompt is showing and answers are being collected
	PhasePlaying Phase = "playing"

	// PhaseScoring indicates the round's answers and scores are on display
	PhaseScoring Phase = "scoring"

	// PhaseFinished indicates the game is over and a winner has been chosen
	PhaseFinished Phase = "finished"
)

// transitions lists every phase reachable from a given phase
var transitions = map[Phase][]Phase{
	PhaseLobby:    {PhasePlaying},
	PhasePlaying:  {PhaseScoring},
	PhaseScoring:  {PhasePlaying, PhaseFinished},
	PhaseFinished: {},
}

func (p Phase) String() string {
	return string(p)
}

func (p Phase) IsLobby() bool {
	return p == PhaseLobby
}

func (p Phase) IsPlaying() bool {
	return p == PhasePlaying
}

func (p Phase) IsScoring() bool {
	return p == PhaseScoring
}

func (p Phase) IsFinished() bool {
	return p == PhaseFinished
}

// Valid reports whether p is one of the known phases
func (p Phase) Valid() bool {
	_, ok := transitions[p]
	return ok
}

// CanTransitionTo checks if moving from p to target is a legal transition
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range transitions[p] {
		if next == target {
			return true
		}
	}
	return false
}
