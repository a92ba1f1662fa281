package player

import (
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"golang.org/x/exp/rand"
)

// Bot is a static opponent that plays a uniformly random empty cell and ignores rewards.
type Bot struct {
	rand *rand.Rand
}

func NewBot(seed uint64) *Bot {
	return &Bot{
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (that *Bot) BeginEpisode() {}

func (that *Bot) SelectMove(board entity.Board) (int, error) {
	availableCells := board.AvailableMoves()
	if len(availableCells) == 0 {
		return 0, apperror.ErrNoAvailableMoves
	}

	return availableCells[that.rand.Intn(len(availableCells))], nil
}

func (that *Bot) ReceiveReward(float64, entity.Board) {}

func (that *Bot) RequiresDisplay() bool {
	return false
}
