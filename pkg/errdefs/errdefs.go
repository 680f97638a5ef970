// Package errdefs defines the sentinel error kinds this module reports
// and helpers to attach them to concrete errors.
package errdefs

import (
	"errors"
	"fmt"
)

// Newf joins base with a formatted error, so errors.Is(err, base)
// reports true on the result.
func Newf(base error, format string, args ...any) error {
	return errors.Join(base, fmt.Errorf(format, args...))
}

// NewE joins base with err, unless err is nil or already carries base.
func NewE(base error, err error) error {
	if err == nil || errors.Is(err, base) {
		return err
	}
	return errors.Join(base, err)
}
