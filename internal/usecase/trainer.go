package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/tictactoe"
	"gonum.org/v1/gonum/stat"
)

// Matchup builds the two players used by one training worker. Learning agents
// returned for the same seat may share a table between workers.
type Matchup func(worker int) (first, second entity.Player)

type TrainerOption func(trainer *Trainer)

func WithWorkers(workers int) TrainerOption {
	return func(trainer *Trainer) {
		if workers > 0 {
			trainer.workers = workers
		}
	}
}

func WithReportEvery(episodes int) TrainerOption {
	return func(trainer *Trainer) {
		if episodes > 0 {
			trainer.reportEvery = episodes
		}
	}
}

// WithStopOnError aborts training on the first failed episode instead of skipping it.
func WithStopOnError(stop bool) TrainerOption {
	return func(trainer *Trainer) {
		trainer.stopOnError = stop
	}
}

type Trainer struct {
	logger  *slog.Logger
	matchup Matchup

	workers     int
	reportEvery int
	stopOnError bool

	mu      sync.Mutex
	played  int
	aborted int
	tally   entity.Tally
	window  []float64
}

func NewTrainer(logger *slog.Logger, matchup Matchup, options ...TrainerOption) *Trainer {
	trainer := &Trainer{
		logger:      logger.With("component", "trainer"),
		matchup:     matchup,
		workers:     1,
		reportEvery: 1000,
	}

	for _, option := range options {
		option(trainer)
	}

	return trainer
}

// Train plays episodes training games and returns the outcomes of this call.
func (that *Trainer) Train(ctx context.Context, episodes int) (entity.Tally, error) {
	log := that.logger.With("method", "Train")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	go func() {
		defer close(jobs)
		for i := 0; i < episodes; i++ {
			select {
			case jobs <- i:
			case <-runCtx.Done():
				return
			}
		}
	}()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
		tally    entity.Tally
		tallyMu  sync.Mutex
	)

	log.Info("training started", "episodes", episodes, "workers", that.workers)

	for worker := 0; worker < that.workers; worker++ {
		first, second := that.matchup(worker)
		if first == nil || second == nil {
			cancel()
			wg.Wait()
			return tally, fmt.Errorf("%w: worker %d", apperror.ErrMatchupIncomplete, worker)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			for range jobs {
				result, err := tictactoe.NewGame(first, second).PlayEpisode(false)
				if err != nil {
					that.recordAbort(log, err)
					if that.stopOnError {
						errOnce.Do(func() {
							firstErr = err
							cancel()
						})
						return
					}
					continue
				}

				that.record(log, result)

				tallyMu.Lock()
				tally.Add(result.Winner)
				tallyMu.Unlock()
			}
		}()
	}

	wg.Wait()

	if firstErr != nil {
		return tally, fmt.Errorf("training aborted: %w", firstErr)
	}

	if err := ctx.Err(); err != nil {
		return tally, fmt.Errorf("training interrupted: %w", err)
	}

	log.Info("training finished", "x_wins", tally.XWins, "o_wins", tally.OWins, "draws", tally.Draws)

	return tally, nil
}

// Tally returns the outcomes of every episode trained so far.
func (that *Trainer) Tally() entity.Tally {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.tally
}

func (that *Trainer) Aborted() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.aborted
}

func (that *Trainer) record(log *slog.Logger, result *entity.Result) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.played++
	that.tally.Add(result.Winner)
	that.window = append(that.window, result.Rewards[entity.PlayerX])

	if that.played%that.reportEvery != 0 {
		return
	}

	mean, std := that.window[0], 0.0
	if len(that.window) > 1 {
		mean, std = stat.MeanStdDev(that.window, nil)
	}

	log.Info("training progress",
		"episodes", that.played,
		"x_wins", that.tally.XWins,
		"o_wins", that.tally.OWins,
		"draws", that.tally.Draws,
		"window_mean_reward", mean,
		"window_std_reward", std,
	)
	that.window = that.window[:0]
}

func (that *Trainer) recordAbort(log *slog.Logger, err error) {
	that.mu.Lock()
	that.aborted++
	that.mu.Unlock()

	log.Error("episode aborted", "error", err)
}
