package game

import "errors"

// Rejection errors report an action the engine refused. They leave the
// hand unchanged and are delivered only to the acting player.
var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrBelowMinimumBet   = errors.New("bet below minimum")
	ErrInsufficientChips = errors.New("insufficient chips")
	ErrInvalidAction     = errors.New("invalid action")
)

// IsRejection reports whether err is a player-facing rejection rather
// than an internal fault.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrBelowMinimumBet) ||
		errors.Is(err, ErrInsufficientChips) ||
		errors.Is(err, ErrInvalidAction)
}
