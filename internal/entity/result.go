package entity

const (
	RewardWin  = 1.0
	RewardLoss = -1.0
	RewardDraw = 0.5
	RewardNone = 0.0
)

// Result describes one finished episode.
type Result struct {
	ID      string             `json:"id,omitempty"`
	Winner  string             `json:"winner"`
	Moves   []int              `json:"moves"`
	Board   Board              `json:"board"`
	Rewards map[string]float64 `json:"rewards"`
}

func (that *Result) IsDraw() bool {
	return that.Winner == PlayerTie
}

type Tally struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}

func (that *Tally) Add(winner string) {
	switch winner {
	case PlayerX:
		that.XWins++
	case PlayerO:
		that.OWins++
	case PlayerTie:
		that.Draws++
	}
}

func (that Tally) Total() int {
	return that.XWins + that.OWins + that.Draws
}
