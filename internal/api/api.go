// Package api holds the JSON bodies exchanged between the game server and
// its clients.
package api

import (
	"time"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

// Error kinds carried in the kind field of a failed response
const (
	KindValidation   = "validation"
	KindNotFound     = "not_found"
	KindInvalidPhase = "invalid_phase"
	KindInternal     = "internal"
)

// Failure is embedded in every response. Both fields are empty on success.
type Failure struct {
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// Failed reports whether the server rejected the request
func (f Failure) Failed() bool {
	return f.Error != ""
}

type CreateResponse struct {
	GameCode string `json:"game_code,omitempty"`
	Failure
}

type JoinRequest struct {
	Name     string `json:"name"`
	GameCode string `json:"game_code"`
}

type JoinResponse struct {
	PlayerID string `json:"player_id,omitempty"`
	Failure
}

// PlayerRequest is the body of /ready and /next
type PlayerRequest struct {
	GameCode string `json:"game_code"`
	PlayerID string `json:"player_id"`
}

type SubmitRequest struct {
	GameCode string `json:"game_code"`
	PlayerID string `json:"player_id"`
	Answer   string `json:"answer"`
}

// AckResponse acknowledges an action. State is the phase after the action.
type AckResponse struct {
	OK    bool   `json:"ok,omitempty"`
	State string `json:"state,omitempty"`
	Failure
}

// PlayerState is one entry of the players map in a snapshot
type PlayerState struct {
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Score     int    `json:"score"`
	Answer    string `json:"answer,omitempty"`
	Ready     bool   `json:"ready"`
	NextReady bool   `json:"next_ready"`
}

// StateResponse is a full session snapshot
type StateResponse struct {
	State       string                 `json:"state,omitempty"`
	Round       int                    `json:"round"`
	CurrentWord string                 `json:"current_word,omitempty"`
	LastWord    string                 `json:"last_word,omitempty"`
	Winner      string                 `json:"winner,omitempty"`
	WinnerName  string                 `json:"winner_name,omitempty"`
	Players     map[string]PlayerState `json:"players,omitempty"`
	Failure
}

// NewStateResponse builds the snapshot body for a session
func NewStateResponse(session *models.Session) *StateResponse {
	resp := &StateResponse{
		State:   session.Phase.String(),
		Round:   session.Round,
		Winner:  session.WinnerID,
		Players: make(map[string]PlayerState, len(session.Players)),
	}

	if session.Phase.IsPlaying() {
		resp.CurrentWord = session.CurrentWord
	}
	if session.Phase.IsScoring() || session.Phase.IsFinished() {
		resp.LastWord = session.LastWord
	}
	if winner := session.Winner(); winner != nil {
		resp.WinnerName = winner.Name
	}

	for id, p := range session.Players {
		resp.Players[id] = PlayerState{
			Name:      p.Name,
			Seat:      p.Seat,
			Score:     p.Score,
			Answer:    p.Answer,
			Ready:     p.Ready,
			NextReady: p.NextReady,
		}
	}

	return resp
}

type RoundEntry struct {
	Round      int               `json:"round"`
	Prompt     string            `json:"prompt"`
	Answers    map[string]string `json:"answers"`
	Points     map[string]int    `json:"points"`
	RecordedAt time.Time         `json:"recorded_at"`
}

type HistoryResponse struct {
	GameCode string       `json:"game_code,omitempty"`
	Rounds   []RoundEntry `json:"rounds"`
	Failure
}

// NewHistoryResponse builds the history body from round records
func NewHistoryResponse(gameCode string, records []*models.RoundRecord) *HistoryResponse {
	resp := &HistoryResponse{
		GameCode: gameCode,
		Rounds:   make([]RoundEntry, 0, len(records)),
	}
	for _, r := range records {
		resp.Rounds = append(resp.Rounds, RoundEntry{
			Round:      r.Round,
			Prompt:     r.Prompt,
			Answers:    r.Answers,
			Points:     r.Points,
			RecordedAt: r.RecordedAt,
		})
	}
	return resp
}

type VersionResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
