package rounds

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/mindmeld/internal/repositories/rounds Repository

import (
	"context"
)

// Repository defines the interface for the per-game round ledger
type Repository interface {
	// AddRoundRecord appends the outcome of a scored round
	AddRoundRecord(ctx context.Context, input *AddRoundRecordInput) error

	// GetRoundRecordsForGame retrieves every recorded round of a game in round order
	GetRoundRecordsForGame(ctx context.Context, input *GetRoundRecordsForGameInput) (*GetRoundRecordsForGameOutput, error)

	// DeleteRoundRecords removes the ledger of a game
	DeleteRoundRecords(ctx context.Context, input *DeleteRoundRecordsInput) error
}
