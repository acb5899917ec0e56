package render

import "fmt"

// MoveOutOfRangeError reports a graph marker request for a ply the game
// does not contain.
type MoveOutOfRangeError struct {
	Requested int
	Max       int
}

func (e *MoveOutOfRangeError) Error() string {
	return fmt.Sprintf("requested ply (%d) is outside the game range (0-%d)", e.Requested, e.Max)
}

// InvalidConfigurationError reports a setter that was handed a value of
// the wrong shape or an unknown name. It is a programmer-facing contract
// violation and is returned synchronously at assignment.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
