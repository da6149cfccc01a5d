package nameplate

import (
	"errors"
	"fmt"
)

// Sentinel errors for common stamping failure conditions.
var (
	ErrEmptyName    = errors.New("nameplate: name is empty")
	ErrNoFont       = errors.New("nameplate: no font configured")
	ErrInvalidParam = errors.New("nameplate: invalid parameter")
	ErrBadTemplate  = errors.New("nameplate: template cannot be read")
)

// StampError reports a failure during a specific stamping operation. It
// wraps the underlying error and names the operation for context.
type StampError struct {
	Op  string // operation name, e.g. "LoadFont", "Layout"
	Err error
}

func (e *StampError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("nameplate.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("nameplate.%s: unknown error", e.Op)
}

func (e *StampError) Unwrap() error {
	return e.Err
}

// newStampError wraps err with operation context.
func newStampError(op string, err error) *StampError {
	return &StampError{Op: op, Err: err}
}
