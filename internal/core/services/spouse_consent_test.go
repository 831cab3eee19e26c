package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"
)

func TestRequiresSpouseConsent(t *testing.T) {
	base := func() *models.Guarantor {
		return &models.Guarantor{
			Role:                 domain.RoleFiador,
			GuaranteeMethod:      domain.MethodProperty,
			HasPropertyGuarantee: true,
			Person: &models.PersonProfile{
				FullName:      "Laura Mendoza",
				MaritalStatus: domain.MaritalMarriedJointProperty,
			},
		}
	}

	t.Run("married joint property with property guarantee", func(t *testing.T) {
		assert.True(t, RequiresSpouseConsent(base()))
	})

	t.Run("separate property regime does not need consent", func(t *testing.T) {
		g := base()
		g.Person.MaritalStatus = domain.MaritalMarriedSeparate
		assert.False(t, RequiresSpouseConsent(g))
	})

	t.Run("single guarantor", func(t *testing.T) {
		g := base()
		g.Person.MaritalStatus = domain.MaritalSingle
		assert.False(t, RequiresSpouseConsent(g))
	})

	t.Run("company never needs consent", func(t *testing.T) {
		g := base()
		g.IsCompany = true
		g.Person = nil
		g.Company = &models.CompanyProfile{CompanyName: "Inmobiliaria Sol SA"}
		assert.False(t, RequiresSpouseConsent(g))
	})

	t.Run("income method does not trigger the rule", func(t *testing.T) {
		g := base()
		g.Role = domain.RoleObligadoSolidario
		g.GuaranteeMethod = domain.MethodIncome
		g.HasPropertyGuarantee = false
		assert.False(t, RequiresSpouseConsent(g))
	})

	t.Run("missing person profile", func(t *testing.T) {
		g := base()
		g.Person = nil
		assert.False(t, RequiresSpouseConsent(g))
	})
}

func TestSpouseConsentDocuments(t *testing.T) {
	docs := SpouseConsentDocuments()
	assert.Equal(t, []string{DocMarriageCertificate, DocSpouseID, DocSpouseConsentLetter}, docs)
}
