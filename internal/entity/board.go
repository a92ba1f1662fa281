package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
)

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

const BoardSize = 9

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid in row-major order. It is comparable, so a Board value
// doubles as the state key of the value table.
type Board [BoardSize]string

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Wins reports whether mark occupies any full row, column or diagonal.
func (that Board) Wins(mark string) bool {
	if mark == EmptyCell {
		return false
	}

	for _, combo := range WinCombos {
		if that[combo[0]] == mark && that[combo[1]] == mark && that[combo[2]] == mark {
			return true
		}
	}

	return false
}

// AvailableMoves returns the 1-indexed positions of empty cells in ascending order.
func (that Board) AvailableMoves() []int {
	moves := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			moves = append(moves, i+1)
		}
	}

	return moves
}

// Place puts mark on the 1-indexed action cell.
func (that *Board) Place(mark string, action int) error {
	if action < 1 || action > BoardSize {
		return fmt.Errorf("%w: %w: action %d", apperror.ErrIllegalAction, apperror.ErrInvalidCell, action)
	}

	if that[action-1] != EmptyCell {
		return fmt.Errorf("%w: %w: action %d", apperror.ErrIllegalAction, apperror.ErrCellOccupied, action)
	}

	that[action-1] = mark

	return nil
}

// Moves counts the non-empty cells.
func (that Board) Moves() int {
	count := 0
	for _, cell := range that {
		if cell != EmptyCell {
			count++
		}
	}

	return count
}

func ToggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
