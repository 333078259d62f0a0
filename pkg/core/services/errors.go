package services

import (
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// newStoreError marks a failure of the upstream store so callers can tell it
// apart from bad input
func newStoreError(cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg("upstream store unavailable").
		WithCause(cause)
}

// IsStoreError reports whether err was caused by the upstream store
func IsStoreError(err error) bool {
	var builder *errbuilder.ErrBuilder
	if !errors.As(err, &builder) {
		return false
	}
	return builder.ErrCode() == errbuilder.CodeUnavailable
}
