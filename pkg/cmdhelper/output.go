package cmdhelper

import (
	"fmt"
	"io"
)

// Fprintf is a wrapper around fmt.Fprintf that guarantees a trailing
// newline and suppresses the error check.
func Fprintf(w io.Writer, format string, args ...any) {
	if format[len(format)-1] != '\n' {
		format += "\n"
	}
	_, _ = fmt.Fprintf(w, format, args...)
}
