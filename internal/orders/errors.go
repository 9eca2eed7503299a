package orders

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrTableNotFound    = errors.New("table not found")
	ErrMenuItemNotFound = errors.New("menu item not found")

	// ErrVersionConflict means another writer advanced the order between
	// our read and our conditional update. Safe to re-read and retry.
	ErrVersionConflict = errors.New("order was modified concurrently")
)

// ValidationError rejects malformed order input with a caller-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
