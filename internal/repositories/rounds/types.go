package rounds

import "github.com/KirkDiggler/mindmeld/internal/models"

// AddRoundRecordInput contains parameters for adding a round record
type AddRoundRecordInput struct {
	Record *models.RoundRecord
}

// GetRoundRecordsForGameInput contains parameters for retrieving a game's rounds
type GetRoundRecordsForGameInput struct {
	GameCode string
}

// GetRoundRecordsForGameOutput contains the rounds of a game, oldest first
type GetRoundRecordsForGameOutput struct {
	Records []*models.RoundRecord
}

// DeleteRoundRecordsInput contains parameters for deleting a game's rounds
type DeleteRoundRecordsInput struct {
	GameCode string
}
