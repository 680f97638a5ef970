package xio

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewindReaderReplaysBufferedBytes(t *testing.T) {
	data := "the header\nthe body\n"
	r := NewRewindReader(strings.NewReader(data))

	buf := make([]byte, 10) // enough for "the header"
	for i := 0; i < 10; i++ {
		r.Rewind()
		n, err := r.Read(buf)
		require.NoError(t, err, "iteration %d", i)
		assert.Equal(t, "the header", string(buf[:n]), "iteration %d", i)
	}

	r.Rewind()
	rest, err := io.ReadAll(r.Reader())
	require.NoError(t, err)
	assert.Equal(t, data, string(rest))
}

func TestRewindReaderNil(t *testing.T) {
	assert.Nil(t, NewRewindReader(nil))
	var rr *RewindReader
	rr.Rewind()
	assert.Nil(t, rr.Reader())
}
