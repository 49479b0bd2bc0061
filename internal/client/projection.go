package client

import (
	"sort"

	"github.com/KirkDiggler/mindmeld/internal/api"
	"github.com/KirkDiggler/mindmeld/internal/models"
)

// RenderPhase is what the local player should see for one snapshot. It is
// one of AwaitingReady, AwaitingAnswer, Submitted, Scoring or Finished.
type RenderPhase interface {
	isRenderPhase()
}

// Row is one player line on a scoreboard
type Row struct {
	PlayerID  string
	Name      string
	Seat      int
	Score     int
	Answer    string
	Ready     bool
	NextReady bool
	Me        bool
}

// AwaitingReady shows the lobby
type AwaitingReady struct {
	Rows  []Row
	Ready bool
}

// AwaitingAnswer shows the prompt and an input
type AwaitingAnswer struct {
	Round  int
	Prompt string
	Rows   []Row
}

// Submitted shows the player's answer while others are still answering
type Submitted struct {
	Round   int
	Prompt  string
	Answer  string
	Waiting []string
	Rows    []Row
}

// Scoring shows the round's answers and the running totals
type Scoring struct {
	Round     int
	Prompt    string
	Rows      []Row
	NextReady bool
}

// Finished shows the winner and final scores
type Finished struct {
	WinnerID   string
	WinnerName string
	Rows       []Row
}

func (AwaitingReady) isRenderPhase()  {}
func (AwaitingAnswer) isRenderPhase() {}
func (Submitted) isRenderPhase()      {}
func (Scoring) isRenderPhase()        {}
func (Finished) isRenderPhase()       {}

// Project maps a snapshot to the render phase for playerID. It depends on
// nothing but its arguments.
func Project(snapshot *api.StateResponse, playerID string) RenderPhase {
	if snapshot == nil {
		return AwaitingReady{Rows: []Row{}}
	}

	rows := rowsOf(snapshot, playerID)
	me, joined := snapshot.Players[playerID]

	switch models.Phase(snapshot.State) {
	case models.PhasePlaying:
		if joined && me.Answer != "" {
			return Submitted{
				Round:   snapshot.Round,
				Prompt:  snapshot.CurrentWord,
				Answer:  me.Answer,
				Waiting: waitingOn(rows),
				Rows:    rows,
			}
		}
		return AwaitingAnswer{
			Round:  snapshot.Round,
			Prompt: snapshot.CurrentWord,
			Rows:   rows,
		}
	case models.PhaseScoring:
		return Scoring{
			Round:     snapshot.Round,
			Prompt:    snapshot.LastWord,
			Rows:      rows,
			NextReady: joined && me.NextReady,
		}
	case models.PhaseFinished:
		name := snapshot.WinnerName
		if name == "" {
			name = snapshot.Players[snapshot.Winner].Name
		}
		return Finished{
			WinnerID:   snapshot.Winner,
			WinnerName: name,
			Rows:       rows,
		}
	default:
		return AwaitingReady{
			Rows:  rows,
			Ready: joined && me.Ready,
		}
	}
}

// rowsOf orders players by score, highest first, then by seat
func rowsOf(snapshot *api.StateResponse, playerID string) []Row {
	rows := make([]Row, 0, len(snapshot.Players))
	for id, p := range snapshot.Players {
		rows = append(rows, Row{
			PlayerID:  id,
			Name:      p.Name,
			Seat:      p.Seat,
			Score:     p.Score,
			Answer:    p.Answer,
			Ready:     p.Ready,
			NextReady: p.NextReady,
			Me:        id == playerID,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if rows[i].Seat != rows[j].Seat {
			return rows[i].Seat < rows[j].Seat
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})

	return rows
}

func waitingOn(rows []Row) []string {
	waiting := []string{}
	for _, r := range rows {
		if r.Answer == "" {
			waiting = append(waiting, r.Name)
		}
	}
	return waiting
}
