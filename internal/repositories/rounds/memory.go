package rounds

import (
	"context"
	"errors"
	"sync"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

// memoryRepository implements the Repository interface in process memory
type memoryRepository struct {
	mu      sync.RWMutex
	records map[string][]*models.RoundRecord
}

// NewMemory creates a new in-memory round ledger
func NewMemory() *memoryRepository {
	return &memoryRepository{
		records: make(map[string][]*models.RoundRecord),
	}
}

func (r *memoryRepository) AddRoundRecord(ctx context.Context, input *AddRoundRecordInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}
	if input.Record.GameCode == "" {
		return errors.New("game code cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record := *input.Record
	r.records[record.GameCode] = append(r.records[record.GameCode], &record)
	return nil
}

func (r *memoryRepository) GetRoundRecordsForGame(ctx context.Context, input *GetRoundRecordsForGameInput) (*GetRoundRecordsForGameOutput, error) {
	if input == nil || input.GameCode == "" {
		return nil, errors.New("input and game code cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.RoundRecord, 0, len(r.records[input.GameCode]))
	for _, rec := range r.records[input.GameCode] {
		cp := *rec
		out = append(out, &cp)
	}

	return &GetRoundRecordsForGameOutput{Records: out}, nil
}

func (r *memoryRepository) DeleteRoundRecords(ctx context.Context, input *DeleteRoundRecordsInput) error {
	if input == nil || input.GameCode == "" {
		return errors.New("input and game code cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, input.GameCode)
	return nil
}
