package allocator

import (
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// NewInputError creates an error for a request that violates the input contract.
// cause may be nil.
func NewInputError(msg string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)

	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

// IsInputError reports whether err (or anything it wraps) is an input contract violation
func IsInputError(err error) bool {
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return false
	}
	return builder.ErrCode() == errbuilder.CodeInvalidArgument
}
