package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

// Display renders a game for players that need to see the board.
type Display interface {
	NewGame()
	ShowBoard(board entity.Board)
	ShowResult(result *entity.Result)
}

type Option func(game *Game)

func WithDisplay(display Display) Option {
	return func(game *Game) {
		if display != nil {
			game.display = display
		}
	}
}

// Game runs a single episode between two players. The first player always plays X.
type Game struct {
	board    entity.Board
	playerX  entity.Player
	playerO  entity.Player
	xTurn    bool
	finished bool
	display  Display
}

func NewGame(first, second entity.Player, options ...Option) *Game {
	game := &Game{
		playerX: first,
		playerO: second,
		xTurn:   true,
		display: noDisplay{},
	}

	for _, option := range options {
		option(game)
	}

	return game
}

func (that *Game) Board() entity.Board {
	return that.board
}

// PlayEpisode plays the game to a terminal state, dispatching a reward every turn.
// An illegal move aborts the episode.
func (that *Game) PlayEpisode(interactive bool) (*entity.Result, error) {
	if that.finished {
		return nil, apperror.ErrGameFinished
	}
	that.finished = true

	if interactive {
		that.display.NewGame()
	}

	that.playerX.BeginEpisode()
	that.playerO.BeginEpisode()

	result := &entity.Result{
		Moves:   make([]int, 0, entity.BoardSize),
		Rewards: map[string]float64{entity.PlayerX: 0, entity.PlayerO: 0},
	}

	for {
		player, mark, other := that.activePlayer()

		if player.RequiresDisplay() {
			that.display.ShowBoard(that.board)
		}

		move, err := player.SelectMove(that.board)
		if err != nil {
			return nil, fmt.Errorf("player %s failed to select move: %w", mark, err)
		}

		if err = that.board.Place(mark, move); err != nil {
			return nil, fmt.Errorf("player %s made invalid turn: %w", mark, err)
		}
		result.Moves = append(result.Moves, move)

		// only the mark that just moved can have completed a triple
		if that.board.Wins(mark) {
			that.reward(result, player, mark, entity.RewardWin)
			that.reward(result, other, entity.ToggleMark(mark), entity.RewardLoss)
			result.Winner = mark
			break
		}

		if that.board.IsFull() {
			that.reward(result, player, mark, entity.RewardDraw)
			that.reward(result, other, entity.ToggleMark(mark), entity.RewardDraw)
			result.Winner = entity.PlayerTie
			break
		}

		// the waiting player's previous move has now been answered
		that.reward(result, other, entity.ToggleMark(mark), entity.RewardNone)
		that.xTurn = !that.xTurn
	}

	result.Board = that.board

	if interactive {
		that.display.ShowBoard(that.board)
		that.display.ShowResult(result)
	}

	return result, nil
}

func (that *Game) activePlayer() (entity.Player, string, entity.Player) {
	if that.xTurn {
		return that.playerX, entity.PlayerX, that.playerO
	}
	return that.playerO, entity.PlayerO, that.playerX
}

func (that *Game) reward(result *entity.Result, player entity.Player, mark string, value float64) {
	player.ReceiveReward(value, that.board)
	result.Rewards[mark] += value
}

type noDisplay struct{}

func (noDisplay) NewGame()                  {}
func (noDisplay) ShowBoard(entity.Board)    {}
func (noDisplay) ShowResult(*entity.Result) {}
