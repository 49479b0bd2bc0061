// Package uuid hands out player IDs.
package uuid

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/KirkDiggler/mindmeld/internal/common/uuid Generator
type Generator interface {
	NewPlayerID() string
}

// TimeOrdered issues version 7 UUIDs, which sort in the order they were
// created. Falls back to a random version 4 UUID if v7 generation fails.
type TimeOrdered struct{}

func New() *TimeOrdered {
	return &TimeOrdered{}
}

func (g *TimeOrdered) NewPlayerID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
