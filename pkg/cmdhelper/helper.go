// Package cmdhelper provides small utilities shared by cli commands.
package cmdhelper

import (
	"reflect"

	"github.com/urfave/cli/v3"
)

// SetFlagsCategory sets the category for the given flags, so related
// flags group together in help output.
func SetFlagsCategory(category string, flags ...cli.Flag) {
	for _, flag := range flags {
		// NOTE: panics when flag is not a pointer to a struct with a
		// string "Category" field, as every urfave/cli flag is.
		reflect.ValueOf(flag).Elem().FieldByName("Category").SetString(category)
	}
}
