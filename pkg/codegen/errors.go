package codegen

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrInvalidArgument is matched by every error this package returns for
// disallowed input.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError describes which argument of which operation was rejected.
type ArgumentError struct {
	Op     string // operation that rejected the argument, e.g. "DocBuilder.WithParam"
	Arg    string // argument name
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument %q: %s", e.Op, e.Arg, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidArgument) succeed.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func invalidArgument(op, arg, reason string) error {
	return errors.WithStack(&ArgumentError{Op: op, Arg: arg, Reason: reason})
}
