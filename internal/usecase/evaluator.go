package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/qlearning"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/tictactoe"
)

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
}

type tablePrinter interface {
	PrintTable(entries []qlearning.Entry)
}

type EvaluatorOption func(evaluator *Evaluator)

// WithTableReport prints table after every evaluation game.
func WithTableReport(printer tablePrinter, table *qlearning.Table) EvaluatorOption {
	return func(evaluator *Evaluator) {
		if printer != nil && table != nil {
			evaluator.printer = printer
			evaluator.table = table
		}
	}
}

// Evaluator plays interactive games with a display and records every result.
type Evaluator struct {
	logger  *slog.Logger
	results resultRepo
	display tictactoe.Display

	printer tablePrinter
	table   *qlearning.Table
}

func NewEvaluator(logger *slog.Logger, results resultRepo, display tictactoe.Display, options ...EvaluatorOption) *Evaluator {
	evaluator := &Evaluator{
		logger:  logger.With("component", "evaluator"),
		results: results,
		display: display,
	}

	for _, option := range options {
		option(evaluator)
	}

	return evaluator
}

// Play runs games between first and second. With games == 0 it keeps playing
// until ctx is done or a player's input ends.
func (that *Evaluator) Play(ctx context.Context, first, second entity.Player, games int) (entity.Tally, error) {
	log := that.logger.With("method", "Play")

	var tally entity.Tally
	for i := 0; games == 0 || i < games; i++ {
		if ctx.Err() != nil {
			log.Info("evaluation stopped", "games", tally.Total())
			return tally, nil
		}

		result, err := tictactoe.NewGame(first, second, tictactoe.WithDisplay(that.display)).PlayEpisode(true)
		if errors.Is(err, io.EOF) {
			log.Info("input closed, evaluation finished", "games", tally.Total())
			return tally, nil
		}

		if err != nil {
			return tally, fmt.Errorf("failed to play evaluation game: %w", err)
		}

		tally.Add(result.Winner)

		if err = that.results.Save(ctx, result); err != nil {
			return tally, fmt.Errorf("failed to save result: %w", err)
		}

		log.Debug("evaluation game finished", "id", result.ID, "winner", result.Winner, "moves", result.Moves)

		if that.printer != nil {
			that.printer.PrintTable(that.table.Snapshot())
		}
	}

	log.Info("evaluation finished", "x_wins", tally.XWins, "o_wins", tally.OWins, "draws", tally.Draws)

	return tally, nil
}
