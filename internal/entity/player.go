package entity

// Player is the capability contract the game engine drives every turn.
type Player interface {
	BeginEpisode()
	// SelectMove returns a 1-indexed cell for the given board.
	SelectMove(board Board) (int, error)
	ReceiveReward(value float64, board Board)
	// RequiresDisplay asks the engine to render the board before the move is requested.
	RequiresDisplay() bool
}
