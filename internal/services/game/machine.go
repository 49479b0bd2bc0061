package game

import (
	"time"

	"github.com/KirkDiggler/mindmeld/internal/models"
	"github.com/KirkDiggler/mindmeld/internal/scoring"
	"github.com/KirkDiggler/mindmeld/internal/words"
)

// rules holds the policies the state machine consults. Every method
// mutates the session it is given and never touches storage.
type rules struct {
	minPlayers int
	picker     words.Picker
	scorer     scoring.Scorer
	terminator scoring.Terminator
}

// transition records a phase change caused by one action
type transition struct {
	from  models.Phase
	to    models.Phase
	round *models.RoundRecord
}

func (r *rules) join(s *models.Session, playerID, name string) (*models.Player, error) {
	if !s.Phase.IsLobby() {
		return nil, ErrInvalidPhase
	}

	p := &models.Player{
		ID:   playerID,
		Name: name,
		Seat: s.NextSeat(),
	}
	s.Players[playerID] = p

	return p, nil
}

func (r *rules) ready(s *models.Session, playerID string) (*transition, error) {
	p, ok := s.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if !s.Phase.IsLobby() {
		return nil, ErrInvalidPhase
	}

	p.Ready = true

	if len(s.Players) < r.minPlayers {
		return nil, nil
	}
	for _, other := range s.Players {
		if !other.Ready {
			return nil, nil
		}
	}

	return r.startRound(s), nil
}

func (r *rules) submit(s *models.Session, playerID, answer string, now time.Time) (*transition, error) {
	p, ok := s.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if !s.Phase.IsPlaying() {
		return nil, ErrInvalidPhase
	}

	p.Answer = answer

	for _, other := range s.Players {
		if !other.HasAnswered() {
			return nil, nil
		}
	}

	return r.closeRound(s, now), nil
}

func (r *rules) next(s *models.Session, playerID string) (*transition, error) {
	p, ok := s.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if !s.Phase.IsScoring() {
		return nil, ErrInvalidPhase
	}

	p.NextReady = true

	for _, other := range s.Players {
		if !other.NextReady {
			return nil, nil
		}
	}

	if r.terminator.Done(s) {
		return r.finish(s), nil
	}
	return r.startRound(s), nil
}

// startRound clears per-round flags and deals a new prompt
func (r *rules) startRound(s *models.Session) *transition {
	t := &transition{from: s.Phase, to: models.PhasePlaying}

	s.Round++
	s.CurrentWord = r.picker.Pick(s.LastWord)
	for _, p := range s.Players {
		p.Ready = false
		p.Answer = ""
		p.NextReady = false
	}
	s.Phase = models.PhasePlaying

	return t
}

// closeRound scores the collected answers and moves to scoring.
// Answers stay on the players so the scoreboard can show them.
func (r *rules) closeRound(s *models.Session, now time.Time) *transition {
	answers := make(map[string]string, len(s.Players))
	for id, p := range s.Players {
		answers[id] = p.Answer
	}

	awarded := r.scorer.Score(answers)
	points := make(map[string]int, len(s.Players))
	for id, p := range s.Players {
		pts := awarded[id]
		if pts < 0 {
			pts = 0
		}
		p.Score += pts
		points[id] = pts
	}

	t := &transition{
		from: s.Phase,
		to:   models.PhaseScoring,
		round: &models.RoundRecord{
			GameCode:   s.Code,
			Round:      s.Round,
			Prompt:     s.CurrentWord,
			Answers:    answers,
			Points:     points,
			RecordedAt: now,
		},
	}

	s.LastWord = s.CurrentWord
	s.CurrentWord = ""
	s.Phase = models.PhaseScoring

	return t
}

func (r *rules) finish(s *models.Session) *transition {
	t := &transition{from: s.Phase, to: models.PhaseFinished}

	s.WinnerID = scoring.Winner(s)
	s.Phase = models.PhaseFinished

	return t
}
