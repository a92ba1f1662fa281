package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/qlearning"
)

// Console draws boards and outcomes as plain text. Write errors are ignored,
// the output is purely informational.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (that *Console) NewGame() {
	fmt.Fprintln(that.out, "\nNew game!")
}

func (that *Console) ShowBoard(board entity.Board) {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		sb.WriteString("     |     |     \n")
		fmt.Fprintf(&sb, "  %s  |  %s  |  %s  \n", cell(board[3*row]), cell(board[3*row+1]), cell(board[3*row+2]))
		if row < 2 {
			sb.WriteString("_____|_____|_____\n")
		}
	}
	sb.WriteString("     |     |     \n")

	fmt.Fprint(that.out, sb.String())
}

func (that *Console) ShowResult(result *entity.Result) {
	if result.IsDraw() {
		fmt.Fprintln(that.out, "Draw!")
		return
	}

	fmt.Fprintln(that.out, result.Winner+" wins!")
}

// PrintTable lists every (state, action) estimate, one per line.
func (that *Console) PrintTable(entries []qlearning.Entry) {
	for _, entry := range entries {
		fmt.Fprintf(that.out, "%s %d %v\n", state(entry.State), entry.Action, entry.Value)
	}
}

func cell(mark string) string {
	if mark == entity.EmptyCell {
		return " "
	}
	return mark
}

func state(board entity.Board) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, mark := range board {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(cell(mark))
	}
	sb.WriteByte(']')

	return sb.String()
}
