package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

const prompt = "Your move? "

// Human asks for a move on a terminal. Input that is not an empty cell in [1, 9]
// is rejected and asked for again, so the engine only ever sees legal moves.
type Human struct {
	in  *bufio.Reader
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (that *Human) BeginEpisode() {}

func (that *Human) SelectMove(board entity.Board) (int, error) {
	for {
		if _, err := fmt.Fprint(that.out, prompt); err != nil {
			return 0, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := that.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return 0, fmt.Errorf("failed to read move: %w", err)
		}

		move, parseErr := parseMove(board, line)
		if parseErr == nil {
			return move, nil
		}

		if _, err = fmt.Fprintf(that.out, "Invalid move: %v\n", parseErr); err != nil {
			return 0, fmt.Errorf("failed to write error: %w", err)
		}
	}
}

func (that *Human) ReceiveReward(float64, entity.Board) {}

func (that *Human) RequiresDisplay() bool {
	return true
}

func parseMove(board entity.Board, line string) (int, error) {
	move, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || move < 1 || move > entity.BoardSize {
		return 0, apperror.ErrInvalidCell
	}

	if board[move-1] != entity.EmptyCell {
		return 0, apperror.ErrCellOccupied
	}

	return move, nil
}
