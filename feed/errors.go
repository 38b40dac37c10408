package feed

import (
	"github.com/pkg/errors"
)

// ErrNotFound is returned by stores when a looked up entity does not exist.
var ErrNotFound = errors.New("not found")

// ClientInputError marks a request that is missing or has an invalid
// required parameter. The HTTP edge maps it to 400.
type ClientInputError struct {
	Msg string
}

func (e *ClientInputError) Error() string {
	return e.Msg
}

func NewClientInputError(msg string) error {
	return &ClientInputError{Msg: msg}
}

// IsClientInputError reports whether err, or any error it wraps, is a
// ClientInputError.
func IsClientInputError(err error) bool {
	var target *ClientInputError
	return errors.As(err, &target)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
