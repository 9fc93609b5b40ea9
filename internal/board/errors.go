package board

import "errors"

var (
	ErrOutOfBounds       = errors.New("tile out of bounds")
	ErrTileOccupied      = errors.New("tile already occupied")
	ErrNotDead           = errors.New("cell is not dead")
	ErrInvalidExpiration = errors.New("toxin expiration must be positive")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrNoPlayers         = errors.New("board needs at least one player")
	ErrInvalidSize       = errors.New("board dimensions must be positive")
	ErrResistant         = errors.New("cell is resistant")
)
