package repository

import (
	"context"
	"maps"
	"strconv"
	"sync"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

// memoryResult keeps results for the lifetime of the process. It is used when Redis is disabled.
type memoryResult struct {
	mu      sync.Mutex
	seq     int
	results map[string]entity.Result
	tally   entity.Tally
}

func NewMemoryResultRepository() ResultRepository {
	return &memoryResult{
		results: make(map[string]entity.Result),
	}
}

func (that *memoryResult) Save(_ context.Context, result *entity.Result) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.seq++
	result.ID = strconv.Itoa(that.seq)

	stored := *result
	stored.Moves = append([]int(nil), result.Moves...)
	stored.Rewards = maps.Clone(result.Rewards)
	that.results[result.ID] = stored
	that.tally.Add(result.Winner)

	return nil
}

func (that *memoryResult) GetByID(_ context.Context, id string) (*entity.Result, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.results[id]
	if !ok {
		return &entity.Result{}, apperror.ErrResultNotFound
	}

	return &stored, nil
}

func (that *memoryResult) Tally(_ context.Context) (*entity.Tally, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	tally := that.tally
	return &tally, nil
}
