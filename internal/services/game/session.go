package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/mindmeld/internal/repositories/rounds"
	"github.com/KirkDiggler/mindmeld/internal/repositories/session"
)

// idleRemover is implemented by session stores that need explicit expiry.
// Stores with native TTLs do not implement it.
type idleRemover interface {
	RemoveIdle(ctx context.Context, input *session.RemoveIdleInput) (*session.RemoveIdleOutput, error)
}

// GetState returns a snapshot of the session
func (s *service) GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.GameCode == "" {
		return nil, ErrEmptyGameCode
	}

	sess, err := s.sessionRepo.GetSession(ctx, &session.GetSessionInput{
		GameCode: input.GameCode,
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &GetStateOutput{Session: sess}, nil
}

// GetHistory returns the scored rounds of a game, oldest first
func (s *service) GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	// history is only served while the session exists
	if _, err := s.GetState(ctx, &GetStateInput{GameCode: input.GameCode}); err != nil {
		return nil, err
	}

	out, err := s.roundRepo.GetRoundRecordsForGame(ctx, &rounds.GetRoundRecordsForGameInput{
		GameCode: input.GameCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}

	return &GetHistoryOutput{Rounds: out.Records}, nil
}

// RemoveIdleGames drops sessions that have not changed for input.IdleFor,
// along with their round ledgers
func (s *service) RemoveIdleGames(ctx context.Context, input *RemoveIdleGamesInput) (*RemoveIdleGamesOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	remover, ok := s.sessionRepo.(idleRemover)
	if !ok {
		return &RemoveIdleGamesOutput{Removed: []string{}}, nil
	}

	out, err := remover.RemoveIdle(ctx, &session.RemoveIdleInput{
		Before: s.clock.Now().Add(-input.IdleFor),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove idle sessions: %w", err)
	}

	for _, gameCode := range out.Removed {
		err := s.roundRepo.DeleteRoundRecords(ctx, &rounds.DeleteRoundRecordsInput{GameCode: gameCode})
		if err != nil {
			s.logger.Warn().Err(err).Str("game_code", gameCode).Msg("failed to delete round records")
		}
	}

	if len(out.Removed) > 0 {
		s.logger.Info().Strs("game_codes", out.Removed).Msg("removed idle games")
	}

	return &RemoveIdleGamesOutput{Removed: out.Removed}, nil
}
