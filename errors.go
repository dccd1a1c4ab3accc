package gotimer

import "github.com/ghettovoice/gotimer/internal/errorutil"

// Error represents a timer service error.
// See [errorutil.Error].
type Error = errorutil.Error

// Common errors.
const (
	ErrInvalidArgument = errorutil.ErrInvalidArgument

	// ErrNotRunning is returned by any operation attempted before the
	// service is started or after it is closed.
	ErrNotRunning Error = "timer service not running"
	// ErrTimerNotFound is returned when no pending timer matches the id:
	// it never existed, already fired, or was already freed. The three
	// cases are indistinguishable to the caller.
	ErrTimerNotFound Error = "timer not found"
)

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return errorutil.NewInvalidArgumentError(args...) //errtrace:skip
}
