package qlearning

import (
	"slices"
	"sync"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/entity"
)

// DefaultValue is the optimistic estimate given to a pair on first access.
const DefaultValue = 1.0

type Key struct {
	State  entity.Board
	Action int
}

type Entry struct {
	State  entity.Board `json:"state"`
	Action int          `json:"action"`
	Value  float64      `json:"value"`
}

// Table maps (state, action) pairs to value estimates. It is safe for concurrent
// use so that agents on parallel games can share one table on purpose.
type Table struct {
	mu     sync.Mutex
	values map[Key]float64
}

func NewTable() *Table {
	return &Table{
		values: make(map[Key]float64),
	}
}

// Value returns the estimate for (state, action). A missing pair is created with DefaultValue.
func (that *Table) Value(state entity.Board, action int) float64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.lookup(Key{State: state, Action: action})
}

// Values looks up every action against the same state.
func (that *Table) Values(state entity.Board, actions []int) []float64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	values := make([]float64, len(actions))
	for i, action := range actions {
		values[i] = that.lookup(Key{State: state, Action: action})
	}

	return values
}

func (that *Table) Set(state entity.Board, action int, value float64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.values[Key{State: state, Action: action}] = value
}

// Adjust replaces the estimate for (state, action) with fn(previous) as one
// read-modify-write and returns the new value.
func (that *Table) Adjust(state entity.Board, action int, fn func(prev float64) float64) float64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	key := Key{State: state, Action: action}
	value := fn(that.lookup(key))
	that.values[key] = value

	return value
}

// AdjustToward is Adjust with fn also given the best estimate of next over
// nextActions (0 when there are none). Both run under one lock so a shared
// table cannot change between reading the maximum and writing the update.
func (that *Table) AdjustToward(
	state entity.Board, action int, next entity.Board, nextActions []int, fn func(prev, best float64) float64,
) float64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	best := 0.0
	for i, nextAction := range nextActions {
		value := that.lookup(Key{State: next, Action: nextAction})
		if i == 0 || value > best {
			best = value
		}
	}

	key := Key{State: state, Action: action}
	value := fn(that.lookup(key), best)
	that.values[key] = value

	return value
}

func (that *Table) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.values)
}

// Snapshot copies the table ordered by state and then by action.
func (that *Table) Snapshot() []Entry {
	that.mu.Lock()
	entries := make([]Entry, 0, len(that.values))
	for key, value := range that.values {
		entries = append(entries, Entry{State: key.State, Action: key.Action, Value: value})
	}
	that.mu.Unlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := slices.Compare(a.State[:], b.State[:]); c != 0 {
			return c
		}
		return a.Action - b.Action
	})

	return entries
}

func (that *Table) lookup(key Key) float64 {
	value, ok := that.values[key]
	if !ok {
		value = DefaultValue
		that.values[key] = value
	}

	return value
}
