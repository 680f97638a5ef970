package cmdhelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestSetFlagsCategory(t *testing.T) {
	flag1 := &cli.BoolFlag{Name: "flag1"}
	flag2 := &cli.StringFlag{Name: "flag2", Category: "other"}

	SetFlagsCategory("common", flag1, flag2)

	assert.Equal(t, "common", flag1.Category)
	assert.Equal(t, "common", flag2.Category)
}
