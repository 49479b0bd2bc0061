// Package events publishes session phase changes to a message bus.
// Clients never consume these; they keep polling /state. The stream exists
// for operators and downstream tooling.
package events

import (
	"context"
	"time"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

// PhaseChanged is emitted once per session phase transition
type PhaseChanged struct {
	GameCode string       `json:"game_code"`
	From     models.Phase `json:"from"`
	To       models.Phase `json:"to"`
	Round    int          `json:"round"`
	WinnerID string       `json:"winner,omitempty"`
	At       time.Time    `json:"at"`
}

//go:generate mockgen -package=mocks -destination=mocks/mock_publisher.go github.com/KirkDiggler/mindmeld/internal/events Publisher
type Publisher interface {
	PublishPhaseChanged(ctx context.Context, event *PhaseChanged) error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) PublishPhaseChanged(context.Context, *PhaseChanged) error {
	return nil
}
