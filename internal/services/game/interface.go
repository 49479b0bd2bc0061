package game

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/mindmeld/internal/services/game Service

// Service defines the interface for game operations
type Service interface {
	// CreateGame allocates a fresh game code and an empty lobby
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)

	// JoinGame adds a player to a game that is still in the lobby
	JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error)

	// Ready marks a lobby player as ready and starts the first round once everyone is
	Ready(ctx context.Context, input *ReadyInput) (*ReadyOutput, error)

	// SubmitAnswer records a player's answer and scores the round once everyone has answered
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error)

	// NextRound marks a player as done with the scoreboard and advances once everyone is
	NextRound(ctx context.Context, input *NextRoundInput) (*NextRoundOutput, error)

	// GetState returns a snapshot of the session
	GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error)

	// GetHistory returns the scored rounds of a game, oldest first
	GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error)

	// RemoveIdleGames drops sessions that have not changed for a while
	RemoveIdleGames(ctx context.Context, input *RemoveIdleGamesInput) (*RemoveIdleGamesOutput, error)
}
