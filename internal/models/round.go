package models

import (
	"time"
)

// RoundRecord captures the outcome of one finished round
type RoundRecord struct {
	// GameCode is the session the round belongs to
	GameCode string

	// Round is the 1-based round number
	Round int

	// Prompt is the word players answered
	Prompt string

	// Answers maps player ID to the normalised answer
	Answers map[string]string

	// Points maps player ID to the points awarded this round
	Points map[string]int

	// RecordedAt is when the round was scored
	RecordedAt time.Time
}
