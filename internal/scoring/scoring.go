// Package scoring holds the pluggable policies that decide how a round is
// scored and when a game is over.
package scoring

import (
	"github.com/KirkDiggler/mindmeld/internal/models"
)

// Scorer awards points for one round of answers.
// It receives normalised answers keyed by player ID and returns points keyed by player ID.
type Scorer interface {
	Score(answers map[string]string) map[string]int
}

// ScorerFunc adapts a plain function to the Scorer interface
type ScorerFunc func(answers map[string]string) map[string]int

func (f ScorerFunc) Score(answers map[string]string) map[string]int {
	return f(answers)
}

// MatchScorer rewards players whose answers match someone else's.
// An answer shared by exactly two players is worth PairPoints each,
// shared by three or more it is worth CrowdPoints each, unique answers score nothing.
type MatchScorer struct {
	PairPoints  int
	CrowdPoints int
}

// NewMatchScorer returns the classic 3 points for a pair, 1 for a crowd
func NewMatchScorer() *MatchScorer {
	return &MatchScorer{
		PairPoints:  3,
		CrowdPoints: 1,
	}
}

func (m *MatchScorer) Score(answers map[string]string) map[string]int {
	counts := make(map[string]int, len(answers))
	for _, a := range answers {
		counts[a]++
	}

	points := make(map[string]int, len(answers))
	for id, a := range answers {
		switch n := counts[a]; {
		case n == 2:
			points[id] = m.PairPoints
		case n > 2:
			points[id] = m.CrowdPoints
		default:
			points[id] = 0
		}
	}

	return points
}

// Terminator decides, at the end of a scoring phase, whether the game is over
type Terminator interface {
	Done(session *models.Session) bool
}

// RoundLimit ends the game once Rounds rounds have been played
type RoundLimit struct {
	Rounds int
}

func (r RoundLimit) Done(session *models.Session) bool {
	return r.Rounds > 0 && session.Round >= r.Rounds
}

// ScoreTarget ends the game once any player reaches Target points
type ScoreTarget struct {
	Target int
}

func (t ScoreTarget) Done(session *models.Session) bool {
	if t.Target <= 0 {
		return false
	}
	for _, p := range session.Players {
		if p.Score >= t.Target {
			return true
		}
	}
	return false
}

type anyOf []Terminator

func (a anyOf) Done(session *models.Session) bool {
	for _, t := range a {
		if t.Done(session) {
			return true
		}
	}
	return false
}

// AnyOf ends the game as soon as one of the given terminators does
func AnyOf(terminators ...Terminator) Terminator {
	return anyOf(terminators)
}

// Winner picks the player with the highest cumulative score.
// Ties go to the earliest seat. Returns "" when there are no players.
func Winner(session *models.Session) string {
	var best *models.Player
	for _, p := range session.PlayersBySeat() {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	if best == nil {
		return ""
	}
	return best.ID
}
