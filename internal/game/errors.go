package game

import (
	"errors"
	"fmt"
)

// ErrIllegalAction marks actions that violate a phase, ownership, or cost
// precondition. The game state is left untouched when it is returned.
var ErrIllegalAction = errors.New("illegal action")

// ErrNotFound marks references to games, cards, or players that do not
// exist.
var ErrNotFound = errors.New("not found")

// ErrGameOver is returned for any mutating action submitted after the
// game has finished.
var ErrGameOver = fmt.Errorf("%w: game is over", ErrIllegalAction)

func illegalActionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
