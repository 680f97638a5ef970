package uri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/uri"
)

func TestParseArxivScheme(t *testing.T) {
	u, err := uri.Parse("arxiv:///2901.00345v1/2901.00345v1.pdf")
	require.NoError(t, err)
	assert.Equal(t, uri.SchemeArxiv, u.Scheme())
	assert.Equal(t, "/2901.00345v1/2901.00345v1.pdf", u.Path())
}

func TestParseRejectsUnregisteredScheme(t *testing.T) {
	_, err := uri.Parse("s3://bucket/key")
	assert.ErrorIs(t, err, uri.ErrBadURI)
}

func TestParseRejectsNoScheme(t *testing.T) {
	_, err := uri.Parse("/just/a/path")
	assert.ErrorIs(t, err, uri.ErrBadURI)
}

func TestFromPath(t *testing.T) {
	u, err := uri.FromPath("/var/data/canonical")
	require.NoError(t, err)
	assert.Equal(t, uri.SchemeFile, u.Scheme())
	assert.Equal(t, "file:///var/data/canonical", u.String())
}

func TestFromPathRejectsRelative(t *testing.T) {
	_, err := uri.FromPath("relative/path")
	assert.ErrorIs(t, err, uri.ErrBadURI)
}

func TestJoin(t *testing.T) {
	u := uri.MustParse("arxiv:///2901.00345v1")
	joined := u.Join("2901.00345v1.pdf")
	assert.Equal(t, "arxiv:///2901.00345v1/2901.00345v1.pdf", joined.String())
}

func TestTextRoundTrip(t *testing.T) {
	u := uri.MustParse("https://export.arxiv.org/2901.00345v1.pdf")
	text, err := u.MarshalText()
	require.NoError(t, err)

	var roundTripped uri.URI
	require.NoError(t, roundTripped.UnmarshalText(text))
	assert.Equal(t, u, roundTripped)
}
