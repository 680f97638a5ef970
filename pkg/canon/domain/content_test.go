package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/identifier"
)

func TestContentTypeFromFilename(t *testing.T) {
	ct, err := domain.ContentTypeFromFilename("2901.00345v1.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypeTarGZ, ct)

	ct, err = domain.ContentTypeFromFilename("2901.00345v1.pdf")
	require.NoError(t, err)
	assert.Equal(t, domain.ContentTypePDF, ct)
}

func TestContentTypeMakeFilename(t *testing.T) {
	vid := identifier.MustParse("2901.00345")
	versioned, err := identifier.NewVersionedIdentifier(vid, 2)
	require.NoError(t, err)
	assert.Equal(t, "2901.00345v2.pdf", domain.ContentTypePDF.MakeFilename(versioned))
}

func TestSourceTypeAvailableFormats(t *testing.T) {
	assert.Equal(t, []domain.ContentType{domain.ContentTypePDF}, domain.SourceType("D").AvailableFormats())
	assert.Equal(t, []domain.ContentType{domain.ContentTypeHTML}, domain.SourceType("H").AvailableFormats())
	assert.Nil(t, domain.SourceType("S").AvailableFormats())
	assert.Nil(t, domain.SourceType("I").AvailableFormats())
	assert.Equal(t, []domain.ContentType{domain.ContentTypeDVI}, domain.SourceType("").AvailableFormats())
}

func TestSourceTypePredicates(t *testing.T) {
	st := domain.SourceType("DA")
	assert.True(t, st.HasPDFLaTeX())
	assert.False(t, st.HasHTML())
}
