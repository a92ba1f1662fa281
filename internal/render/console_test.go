package render

import (
	"bytes"
	"testing"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/qlearning"
	"github.com/stretchr/testify/assert"
)

func TestConsole_ShowBoard(t *testing.T) {
	// Given: a console and a board with two marks
	out := &bytes.Buffer{}
	console := NewConsole(out)
	board := entity.Board{0: entity.PlayerX, 4: entity.PlayerO}

	// When: the board is shown
	console.ShowBoard(board)

	// Then: the 3x3 grid is drawn with blanks for empty cells
	expected := "" +
		"     |     |     \n" +
		"  X  |     |     \n" +
		"_____|_____|_____\n" +
		"     |     |     \n" +
		"     |  O  |     \n" +
		"_____|_____|_____\n" +
		"     |     |     \n" +
		"     |     |     \n" +
		"     |     |     \n"
	assert.Equal(t, expected, out.String())
}

func TestConsole_ShowResult(t *testing.T) {
	t.Run("Win", func(t *testing.T) {
		out := &bytes.Buffer{}

		NewConsole(out).ShowResult(&entity.Result{Winner: entity.PlayerO})

		assert.Equal(t, "O wins!\n", out.String())
	})

	t.Run("Draw", func(t *testing.T) {
		out := &bytes.Buffer{}

		NewConsole(out).ShowResult(&entity.Result{Winner: entity.PlayerTie})

		assert.Equal(t, "Draw!\n", out.String())
	})

	t.Run("New game banner", func(t *testing.T) {
		out := &bytes.Buffer{}

		NewConsole(out).NewGame()

		assert.Equal(t, "\nNew game!\n", out.String())
	})
}

func TestConsole_PrintTable(t *testing.T) {
	out := &bytes.Buffer{}

	NewConsole(out).PrintTable([]qlearning.Entry{
		{State: entity.Board{}, Action: 5, Value: 1},
		{State: entity.Board{4: entity.PlayerX}, Action: 1, Value: 0.75},
	})

	assert.Equal(t, "[ , , , , , , , , ] 5 1\n[ , , , ,X, , , , ] 1 0.75\n", out.String())
}
