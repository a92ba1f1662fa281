package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrIllegalAction     = errors.New("illegal action")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrNoAvailableMoves  = errors.New("no available moves")
	ErrUnknownOpponent   = errors.New("unknown opponent kind")
	ErrResultNotFound    = errors.New("result not found")
	ErrMatchupIncomplete = errors.New("matchup returned a nil player")
	ErrUnknownLogLevel   = errors.New("unknown log level")
)
