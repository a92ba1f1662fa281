package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/config"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/player"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/qlearning"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/render"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/repository"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-qlearning/transport/rest"
)

var ErrAddrNotFound = errors.New("redis host is empty")

// RunApp - trains two agents against each other, then evaluates the first one
// against the configured opponent.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	results, closeResults, err := newResultRepository(ctx, conf)
	if err != nil {
		return err
	}
	defer closeResults(log)

	return run(ctx, logger, conf, results, os.Stdin, os.Stdout)
}

func run(ctx context.Context, logger *slog.Logger, conf *config.Config, results repository.ResultRepository, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	tables := map[string]*qlearning.Table{
		entity.PlayerX: qlearning.NewTable(),
		entity.PlayerO: qlearning.NewTable(),
	}

	var firstAgent, secondAgent *qlearning.Agent
	matchup := func(worker int) (entity.Player, entity.Player) {
		seed := conf.Training.Seed + uint64(2*worker)
		first := newAgent(conf, tables[entity.PlayerX], seed)
		second := newAgent(conf, tables[entity.PlayerO], seed+1)
		if worker == 0 {
			firstAgent, secondAgent = first, second
		}
		return first, second
	}

	trainer := usecase.NewTrainer(logger, matchup,
		usecase.WithWorkers(conf.Training.Workers),
		usecase.WithReportEvery(conf.Training.ReportEvery),
		usecase.WithStopOnError(conf.Training.StopOnError),
	)

	if conf.HTTPPort != "" {
		go func() {
			log.Info("Starting HTTP server", "port", conf.HTTPPort)
			handlers := rest.NewHandlers(trainer, results, tables)
			if httpErr := rest.Start(ctx, conf.HTTPPort, handlers); httpErr != nil {
				log.Error("HTTP server error", "error", httpErr)
			}
		}()
	}

	if _, err := trainer.Train(ctx, conf.Training.Episodes); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Training canceled, shutting down")
			return nil
		}
		return fmt.Errorf("training failed: %w", err)
	}

	if firstAgent == nil {
		firstAgent = newAgent(conf, tables[entity.PlayerX], conf.Training.Seed)
		secondAgent = newAgent(conf, tables[entity.PlayerO], conf.Training.Seed+1)
	}
	firstAgent.SetEpsilon(0)

	opponent, err := newOpponent(conf, secondAgent, in, out)
	if err != nil {
		return err
	}

	console := render.NewConsole(out)
	var options []usecase.EvaluatorOption
	if conf.Evaluation.PrintTable {
		options = append(options, usecase.WithTableReport(console, firstAgent.Table()))
	}

	evaluator := usecase.NewEvaluator(logger, results, console, options...)

	evalErrCh := make(chan error, 1)
	go func() {
		_, evalErr := evaluator.Play(ctx, firstAgent, opponent, conf.Evaluation.Games)
		evalErrCh <- evalErr
	}()

	select {
	case err = <-evalErrCh:
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func newAgent(conf *config.Config, table *qlearning.Table, seed uint64) *qlearning.Agent {
	return qlearning.New(
		qlearning.WithTable(table),
		qlearning.WithSeed(seed),
		qlearning.WithAlpha(conf.Agent.Alpha),
		qlearning.WithGamma(conf.Agent.Gamma),
		qlearning.WithEpsilon(conf.Agent.Epsilon),
	)
}

func newOpponent(conf *config.Config, agent *qlearning.Agent, in io.Reader, out io.Writer) (entity.Player, error) {
	switch conf.Evaluation.Opponent {
	case config.OpponentHuman:
		return player.NewHuman(in, out), nil
	case config.OpponentBot:
		return player.NewBot(conf.Training.Seed), nil
	case config.OpponentAgent:
		return agent, nil
	default:
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownOpponent, conf.Evaluation.Opponent)
	}
}

func newResultRepository(ctx context.Context, conf *config.Config) (repository.ResultRepository, func(*slog.Logger), error) {
	if !conf.Redis.Enabled {
		return repository.NewMemoryResultRepository(), func(*slog.Logger) {}, nil
	}

	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeFn := func(log *slog.Logger) {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewResultRepository(redisStorage), closeFn, nil
}
