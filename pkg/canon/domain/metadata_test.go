package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arxiv/canonical/pkg/canon/domain"
)

func TestMetadataWithSecondaries(t *testing.T) {
	m := domain.Metadata{
		PrimaryClassification:   "cs.DL",
		SecondaryClassification: []domain.Category{"cs.IR"},
	}
	m2 := m.WithSecondaries("cs.IR", "cs.DB")
	assert.Equal(t, []domain.Category{"cs.IR", "cs.DB"}, m2.SecondaryClassification)
	assert.Equal(t, []domain.Category{"cs.DL", "cs.IR", "cs.DB"}, m2.AllCategories())

	// Original is untouched.
	assert.Equal(t, []domain.Category{"cs.IR"}, m.SecondaryClassification)
}
