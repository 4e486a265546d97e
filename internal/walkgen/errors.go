package walkgen

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("walkgen: invalid configuration")
	ErrExhausted     = errors.New("walkgen: attempt limit reached without an acceptable level")
)

// ExhaustedError reports that every attempt produced fewer floor tiles than
// the configured minimum. Attempts always equals Config.MaxAttempts; the
// caller decides whether to retry with a looser configuration.
type ExhaustedError struct {
	Attempts int
	Config   Config
}

// Error returns the error message
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("walkgen: exhausted %d attempts without reaching %d floor tiles", e.Attempts, e.Config.MinFloorTiles)
}

// Unwrap allows errors.Is(err, ErrExhausted) to match
func (e *ExhaustedError) Unwrap() error {
	return ErrExhausted
}
