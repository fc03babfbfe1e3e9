package apperror

import "errors"

var (
	// ErrMoveRejected wraps every reason a move is refused. Callers ignore the click.
	ErrMoveRejected = errors.New("move rejected")

	ErrGameFinished    = errors.New("game is already finished")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrSessionNotFound = errors.New("session not found")
)
