package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/errdefs"
)

func newTestVersion(t *testing.T) domain.Version {
	t.Helper()
	vid, err := identifier.ParseVersioned("2901.00345v1")
	require.NoError(t, err)
	return domain.Version{
		Identifier: vid,
		Source:     domain.CanonicalFile{Filename: "2901.00345v1.tar.gz", SizeBytes: 2056},
		Formats: map[domain.ContentType]domain.CanonicalFile{
			domain.ContentTypePDF: {Filename: "2901.00345v1.pdf"},
		},
	}
}

func TestVersionSizeKilobytes(t *testing.T) {
	v := newTestVersion(t)
	assert.Equal(t, 2, v.SizeKilobytes())
}

func TestVersionFormatSourceAndRender(t *testing.T) {
	v := newTestVersion(t)
	render := domain.CanonicalFile{Filename: "rendered.pdf"}
	v.Render = &render

	got, err := v.Format("source")
	require.NoError(t, err)
	assert.Equal(t, v.Source, got)

	got, err = v.Format("render")
	require.NoError(t, err)
	assert.Equal(t, render, got)
}

func TestVersionFormatDissemination(t *testing.T) {
	v := newTestVersion(t)
	got, err := v.Format("pdf")
	require.NoError(t, err)
	assert.Equal(t, "2901.00345v1.pdf", got.Filename)
}

func TestVersionFormatNotAvailable(t *testing.T) {
	v := newTestVersion(t)
	_, err := v.Format("html")
	assert.ErrorIs(t, err, domain.ErrFormatNotAvailable)
}

func TestVersionFormatUnknown(t *testing.T) {
	v := newTestVersion(t)
	_, err := v.Format("not-a-format")
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
	assert.False(t, errors.Is(err, errdefs.ErrNotFound))
}
