package qlearning

import (
	"math"
	"testing"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardOf(t *testing.T, moves ...int) entity.Board {
	t.Helper()

	board := entity.Board{}
	mark := entity.PlayerX
	for _, move := range moves {
		require.NoError(t, board.Place(mark, move))
		mark = entity.ToggleMark(mark)
	}

	return board
}

func TestNew(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		agent := New()

		assert.Equal(t, DefaultEpsilon, agent.epsilon)
		assert.Equal(t, DefaultAlpha, agent.alpha)
		assert.Equal(t, DefaultGamma, agent.gamma)
		assert.NotNil(t, agent.Table())
		assert.NotNil(t, agent.rand)
		assert.False(t, agent.RequiresDisplay())
	})

	t.Run("Options override defaults and ignore invalid values", func(t *testing.T) {
		table := NewTable()

		agent := New(WithEpsilon(0), WithAlpha(0.5), WithGamma(1.5), WithTable(table), WithSeed(7))

		assert.Zero(t, agent.Epsilon())
		assert.Equal(t, 0.5, agent.alpha)
		assert.Equal(t, DefaultGamma, agent.gamma)
		assert.Same(t, table, agent.Table())
	})
}

func TestAgent_BeginEpisode(t *testing.T) {
	// Given: an agent that remembers a previous decision
	agent := New(WithSeed(1))
	agent.lastState = boardOf(t, 5, 1)
	agent.lastAction = 9

	// When: a new episode begins
	agent.BeginEpisode()

	// Then: the memory is back to the empty board and no action
	assert.Equal(t, entity.Board{}, agent.lastState)
	assert.Equal(t, noAction, agent.lastAction)
}

func TestAgent_SelectMove(t *testing.T) {
	t.Run("Greedy move picks the highest value", func(t *testing.T) {
		// Given: a greedy agent whose table prefers the center
		agent := New(WithEpsilon(0), WithSeed(1))
		agent.Table().Set(entity.Board{}, 5, 2.0)
		agent.BeginEpisode()

		// When: selecting from the empty board
		move, err := agent.SelectMove(entity.Board{})

		// Then: the center is chosen and remembered with the board
		require.NoError(t, err)
		assert.Equal(t, 5, move)
		assert.Equal(t, 5, agent.lastAction)
		assert.Equal(t, entity.Board{}, agent.lastState)
		assert.Equal(t, entity.BoardSize, agent.Table().Len())
	})

	t.Run("Greedy lookup is keyed by the previously stored state", func(t *testing.T) {
		// Given: a greedy agent that opened in the center
		agent := New(WithEpsilon(0), WithSeed(1))
		agent.Table().Set(entity.Board{}, 5, 2.0)
		agent.BeginEpisode()
		_, err := agent.SelectMove(entity.Board{})
		require.NoError(t, err)

		// Given: the stored state prefers 3 while the current board prefers 7
		current := boardOf(t, 5, 1)
		agent.Table().Set(entity.Board{}, 3, 5.0)
		agent.Table().Set(current, 7, 10.0)

		// When: selecting on the current board
		move, err := agent.SelectMove(current)

		// Then: the value stored under the previous state decides
		require.NoError(t, err)
		assert.Equal(t, 3, move)
		assert.Equal(t, current, agent.lastState)
	})

	t.Run("Greedy move never picks an occupied cell", func(t *testing.T) {
		// Given: the stored state values an occupied cell highest
		agent := New(WithEpsilon(0), WithSeed(1))
		agent.BeginEpisode()
		agent.Table().Set(entity.Board{}, 1, 100.0)
		board := boardOf(t, 1, 2)

		// When: selecting
		move, err := agent.SelectMove(board)

		// Then: the move is still legal
		require.NoError(t, err)
		assert.Contains(t, board.AvailableMoves(), move)
	})

	t.Run("Ties are broken among maximizers only", func(t *testing.T) {
		// Given: two actions share the best value
		agent := New(WithEpsilon(0), WithSeed(3))
		agent.Table().Set(entity.Board{}, 2, 4.0)
		agent.Table().Set(entity.Board{}, 8, 4.0)

		seen := map[int]int{}
		for i := 0; i < 200; i++ {
			agent.BeginEpisode()

			move, err := agent.SelectMove(entity.Board{})
			require.NoError(t, err)

			seen[move]++
		}

		// Then: only the maximizers are chosen, each of them at some point
		assert.Len(t, seen, 2)
		assert.Positive(t, seen[2])
		assert.Positive(t, seen[8])
	})

	t.Run("Greedy choice is deterministic for identical tables and memory", func(t *testing.T) {
		// Given: two agents with different seeds but the same unique maximum
		first := New(WithEpsilon(0), WithSeed(1))
		second := New(WithEpsilon(0), WithSeed(99))
		for _, agent := range []*Agent{first, second} {
			agent.BeginEpisode()
			agent.Table().Set(entity.Board{}, 4, 1.5)
		}

		// When: both select on the same board
		firstMove, err := first.SelectMove(boardOf(t, 5))
		require.NoError(t, err)
		secondMove, err := second.SelectMove(boardOf(t, 5))
		require.NoError(t, err)

		// Then: they agree
		assert.Equal(t, 4, firstMove)
		assert.Equal(t, firstMove, secondMove)
	})

	t.Run("Exploration draws uniformly among legal moves without scoring", func(t *testing.T) {
		// Given: an agent that always explores
		agent := New(WithEpsilon(1), WithSeed(11))
		board := boardOf(t, 1, 2, 3, 5, 6)

		seen := map[int]bool{}
		for i := 0; i < 200; i++ {
			agent.BeginEpisode()

			move, err := agent.SelectMove(board)
			require.NoError(t, err)

			require.Contains(t, board.AvailableMoves(), move)
			assert.Equal(t, board, agent.lastState)
			seen[move] = true
		}

		// Then: every legal move showed up and the table was never read
		assert.Len(t, seen, 4)
		assert.Zero(t, agent.Table().Len())
	})

	t.Run("Error on full board", func(t *testing.T) {
		agent := New(WithSeed(1))

		_, err := agent.SelectMove(boardOf(t, 1, 5, 9, 3, 7, 4, 6, 8, 2))

		assert.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
	})
}

func TestAgent_ReceiveReward(t *testing.T) {
	t.Run("No update before the first move", func(t *testing.T) {
		// Given: an agent that has not moved in this episode
		agent := New(WithSeed(1))
		agent.BeginEpisode()

		// When: a reward arrives
		agent.ReceiveReward(1, boardOf(t, 5))

		// Then: the table is untouched
		assert.Zero(t, agent.Table().Len())
	})

	t.Run("Temporal difference update", func(t *testing.T) {
		// Given: a greedy agent that played the center from the empty board
		agent := New(WithEpsilon(0), WithSeed(1))
		agent.Table().Set(entity.Board{}, 5, 2.0)
		agent.BeginEpisode()
		move, err := agent.SelectMove(entity.Board{})
		require.NoError(t, err)
		require.Equal(t, 5, move)

		// When: it is rewarded with the resulting board
		agent.ReceiveReward(1, boardOf(t, 5))

		// Then: Q = 2.0 + 0.1 * (1 + 0.9 * 1.0 - 2.0)
		assert.InDelta(t, 1.99, agent.Table().Value(entity.Board{}, 5), 1e-9)

		// Then: the max term defaulted one pair per action legal in the learning state
		assert.Equal(t, 2*entity.BoardSize, agent.Table().Len())
	})

	t.Run("Max term ranges over actions legal in the learning state", func(t *testing.T) {
		// Given: the result board values the now occupied center at 3.0
		agent := New(WithEpsilon(0), WithSeed(1))
		agent.Table().Set(entity.Board{}, 5, 2.0)
		result := boardOf(t, 5)
		agent.Table().Set(result, 5, 3.0)
		agent.BeginEpisode()
		_, err := agent.SelectMove(entity.Board{})
		require.NoError(t, err)

		// When: it is rewarded
		agent.ReceiveReward(1, result)

		// Then: Q = 2.0 + 0.1 * (1 + 0.9 * 3.0 - 2.0)
		assert.InDelta(t, 2.17, agent.Table().Value(entity.Board{}, 5), 1e-9)
	})

	t.Run("Full step size with no discount stores the reward", func(t *testing.T) {
		agent := New(WithEpsilon(1), WithAlpha(1), WithGamma(0), WithSeed(5))
		agent.BeginEpisode()
		move, err := agent.SelectMove(entity.Board{})
		require.NoError(t, err)

		agent.ReceiveReward(-1, boardOf(t, move))

		assert.Equal(t, -1.0, agent.Table().Value(entity.Board{}, move))
	})
}

func TestAgent_SelfPlay(t *testing.T) {
	// Given: two learning agents with their own tables
	first := New(WithSeed(1))
	second := New(WithSeed(2))
	tally := entity.Tally{}

	// When: they play a batch of training episodes
	for i := 0; i < 500; i++ {
		result, err := tictactoe.NewGame(first, second).PlayEpisode(false)
		require.NoError(t, err)

		tally.Add(result.Winner)
	}

	// Then: every episode produced exactly one outcome and the tables stayed separate and finite
	assert.Equal(t, 500, tally.Total())
	assert.NotSame(t, first.Table(), second.Table())
	assert.Positive(t, first.Table().Len())
	assert.Positive(t, second.Table().Len())
	for _, entry := range first.Table().Snapshot() {
		require.False(t, math.IsNaN(entry.Value))
		require.False(t, math.IsInf(entry.Value, 0))
	}
}
