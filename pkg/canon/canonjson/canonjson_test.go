package canonjson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/canonjson"
)

type sample struct {
	Zebra string `json:"zebra"`
	Alpha string `json:"alpha"`
	Nested struct {
		Zulu string `json:"zulu"`
		Able string `json:"able"`
	} `json:"nested"`
}

func TestMarshalSortsKeys(t *testing.T) {
	var s sample
	s.Zebra = "z"
	s.Alpha = "a"
	s.Nested.Zulu = "zu"
	s.Nested.Able = "ab"

	out, err := canonjson.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"a","nested":{"able":"ab","zulu":"zu"},"zebra":"z"}`, string(out))
}

func TestMarshalIsDeterministicAcrossFieldOrder(t *testing.T) {
	type a struct {
		First  string `json:"first"`
		Second string `json:"second"`
	}
	type b struct {
		Second string `json:"second"`
		First  string `json:"first"`
	}
	out1, err := canonjson.Marshal(a{First: "x", Second: "y"})
	require.NoError(t, err)
	out2, err := canonjson.Marshal(b{First: "x", Second: "y"})
	require.NoError(t, err)
	assert.Equal(t, string(out1), string(out2))
}
