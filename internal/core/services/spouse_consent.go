package services

import (
	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"
)

// ============================================================
// Spouse-Consent Rule
// ============================================================

// Document category codes the consenting spouse must provide
const (
	DocMarriageCertificate = "MARRIAGE_CERTIFICATE"
	DocSpouseID            = "SPOUSE_ID"
	DocSpouseConsentLetter = "SPOUSE_CONSENT_LETTER"
)

// RequiresSpouseConsent reports whether the guarantor's spouse must
// consent to the property guarantee. Only an individual, married under
// the joint/community property regime, actually guaranteeing with
// property needs it; the separate-property regime does not, and a
// company never does.
func RequiresSpouseConsent(g *models.Guarantor) bool {
	if g.IsCompany || g.Person == nil {
		return false
	}
	if MethodInEffect(g) != domain.MethodProperty || !g.HasPropertyGuarantee {
		return false
	}
	return g.Person.MaritalStatus == domain.MaritalMarriedJointProperty
}

// SpouseConsentDocuments lists the document categories required once
// RequiresSpouseConsent holds.
func SpouseConsentDocuments() []string {
	return []string{DocMarriageCertificate, DocSpouseID, DocSpouseConsentLetter}
}
