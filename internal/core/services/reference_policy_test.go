package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentaguard/internal/core/domain"
)

func TestMinimumReferences(t *testing.T) {
	assert.Equal(t, 3, MinimumReferences(false))
	assert.Equal(t, 1, MinimumReferences(true))
}

func TestSummarizeReferences(t *testing.T) {
	tests := []struct {
		name  string
		kind  domain.ReferenceKind
		total int
		want  domain.ReferenceSummary
	}{
		{"personal none", domain.ReferencePersonal, 0, domain.ReferenceSummary{Total: 0, MeetsRequirement: false, MissingCount: 3}},
		{"personal short", domain.ReferencePersonal, 2, domain.ReferenceSummary{Total: 2, MeetsRequirement: false, MissingCount: 1}},
		{"personal at minimum", domain.ReferencePersonal, 3, domain.ReferenceSummary{Total: 3, MeetsRequirement: true, MissingCount: 0}},
		{"personal over", domain.ReferencePersonal, 5, domain.ReferenceSummary{Total: 5, MeetsRequirement: true, MissingCount: 0}},
		{"commercial none", domain.ReferenceCommercial, 0, domain.ReferenceSummary{Total: 0, MeetsRequirement: false, MissingCount: 1}},
		{"commercial at minimum", domain.ReferenceCommercial, 1, domain.ReferenceSummary{Total: 1, MeetsRequirement: true, MissingCount: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummarizeReferences(tt.kind, tt.total))
		})
	}
}
