package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

const (
	resultSeqKey   = "results:seq"
	resultTallyKey = "results:tally"
	resultKeyPref  = "result:"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	GetByID(ctx context.Context, id string) (*entity.Result, error)
	Tally(ctx context.Context) (*entity.Tally, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

// Save assigns the next sequential ID to result, stores it and counts its winner.
func (that *dbResult) Save(ctx context.Context, result *entity.Result) error {
	seq, err := that.client.Incr(ctx, resultSeqKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate result id: %w", err)
	}
	result.ID = strconv.FormatInt(seq, 10)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, resultKeyPref+result.ID, resultJSON, 0)
		pipe.HIncrBy(ctx, resultTallyKey, result.Winner, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set result: %w", err)
	}

	return nil
}

func (that *dbResult) GetByID(ctx context.Context, id string) (*entity.Result, error) {
	response, err := that.client.Get(ctx, resultKeyPref+id).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Result{}, apperror.ErrResultNotFound
	}

	if err != nil {
		return &entity.Result{}, fmt.Errorf("%w by id", err)
	}

	var existingResult entity.Result
	if err = json.Unmarshal([]byte(response), &existingResult); err != nil {
		return &entity.Result{}, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &existingResult, nil
}

func (that *dbResult) Tally(ctx context.Context) (*entity.Tally, error) {
	counters, err := that.client.HGetAll(ctx, resultTallyKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get tally: %w", err)
	}

	tally := &entity.Tally{}
	for winner, raw := range counters {
		count, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("bad tally counter %q: %w", winner, err)
		}

		switch winner {
		case entity.PlayerX:
			tally.XWins = count
		case entity.PlayerO:
			tally.OWins = count
		case entity.PlayerTie:
			tally.Draws = count
		}
	}

	return tally, nil
}
