package qlearning

import (
	"time"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
	"golang.org/x/exp/rand"
)

const (
	DefaultEpsilon = 0.2
	DefaultAlpha   = 0.1
	DefaultGamma   = 0.9
)

const noAction = 0

type Option func(agent *Agent)

func WithEpsilon(epsilon float64) Option {
	return func(agent *Agent) {
		if epsilon >= 0 && epsilon <= 1 {
			agent.epsilon = epsilon
		}
	}
}

func WithAlpha(alpha float64) Option {
	return func(agent *Agent) {
		if alpha > 0 && alpha <= 1 {
			agent.alpha = alpha
		}
	}
}

func WithGamma(gamma float64) Option {
	return func(agent *Agent) {
		if gamma >= 0 && gamma <= 1 {
			agent.gamma = gamma
		}
	}
}

// WithTable makes the agent learn into an existing table.
func WithTable(table *Table) Option {
	return func(agent *Agent) {
		if table != nil {
			agent.table = table
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(agent *Agent) {
		if rng != nil {
			agent.rand = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(agent *Agent) {
		agent.rand = rand.New(rand.NewSource(seed))
	}
}

// Agent is an epsilon-greedy player that learns action values from the rewards
// the game engine dispatches.
type Agent struct {
	table *Table
	rand  *rand.Rand

	epsilon float64
	alpha   float64
	gamma   float64

	lastState  entity.Board
	lastAction int
}

func New(options ...Option) *Agent {
	agent := &Agent{ // Default values
		epsilon: DefaultEpsilon,
		alpha:   DefaultAlpha,
		gamma:   DefaultGamma,
	}

	for _, option := range options {
		option(agent)
	}

	if agent.table == nil {
		agent.table = NewTable()
	}

	if agent.rand == nil {
		agent.rand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	return agent
}

func (that *Agent) Table() *Table {
	return that.table
}

func (that *Agent) Epsilon() float64 {
	return that.epsilon
}

// SetEpsilon changes the exploration rate, e.g. to 0 once training is over.
func (that *Agent) SetEpsilon(epsilon float64) {
	that.epsilon = epsilon
}

func (that *Agent) BeginEpisode() {
	that.lastState = entity.Board{}
	that.lastAction = noAction
}

// SelectMove explores with probability epsilon and otherwise plays the best
// known action. Values are looked up against the state stored at the previous
// decision, not the board passed in; ties are broken uniformly at random.
func (that *Agent) SelectMove(board entity.Board) (int, error) {
	actions := board.AvailableMoves()
	if len(actions) == 0 {
		return noAction, apperror.ErrNoAvailableMoves
	}

	if that.rand.Float64() < that.epsilon {
		that.lastAction = actions[that.rand.Intn(len(actions))]
		that.lastState = board

		return that.lastAction, nil
	}

	values := that.table.Values(that.lastState, actions)
	best := maxOf(values)

	maximizers := make([]int, 0, len(values))
	for i, value := range values {
		if value == best {
			maximizers = append(maximizers, i)
		}
	}

	chosen := maximizers[0]
	if len(maximizers) > 1 {
		chosen = maximizers[that.rand.Intn(len(maximizers))]
	}

	that.lastAction = actions[chosen]
	that.lastState = board

	return that.lastAction, nil
}

func (that *Agent) ReceiveReward(value float64, board entity.Board) {
	if that.lastAction == noAction {
		return
	}

	that.learn(that.lastState, that.lastAction, value, board)
}

func (that *Agent) RequiresDisplay() bool {
	return false
}

// learn applies Q(s,a) += alpha * (r + gamma * max Q(result, a') - Q(s,a)), with a'
// ranging over the actions that were legal in s.
func (that *Agent) learn(state entity.Board, action int, reward float64, result entity.Board) {
	that.table.AdjustToward(state, action, result, state.AvailableMoves(), func(prev, best float64) float64 {
		return prev + that.alpha*((reward+that.gamma*best)-prev)
	})
}

func maxOf(values []float64) float64 {
	best := values[0]
	for _, value := range values[1:] {
		if value > best {
			best = value
		}
	}

	return best
}
