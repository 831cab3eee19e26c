package services

import (
	"rentaguard/internal/core/domain"
)

// ============================================================
// Reference Requirement Policy
// ============================================================

// Submission minimums per legal-person kind
const (
	MinPersonalReferences   = 3
	MinCommercialReferences = 1
)

// MinimumReferences returns the submission minimum for the variant
func MinimumReferences(isCompany bool) int {
	if isCompany {
		return MinCommercialReferences
	}
	return MinPersonalReferences
}

// SummarizeReferences reports a reference list against its minimum
func SummarizeReferences(kind domain.ReferenceKind, total int) domain.ReferenceSummary {
	minimum := MinPersonalReferences
	if kind == domain.ReferenceCommercial {
		minimum = MinCommercialReferences
	}

	missing := minimum - total
	if missing < 0 {
		missing = 0
	}

	return domain.ReferenceSummary{
		Total:            total,
		MeetsRequirement: total >= minimum,
		MissingCount:     missing,
	}
}
