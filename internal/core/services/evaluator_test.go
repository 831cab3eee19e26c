package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"
)

// completePersonOnIncome builds an obligado solidario with every block
// filled, which should score 100 and pass the submission gate.
func completePersonOnIncome() *models.Guarantor {
	return &models.Guarantor{
		Role:            domain.RoleObligadoSolidario,
		Email:           "roberto.avila@example.mx",
		Phone:           "5512345678",
		Relationship:    "Brother of the tenant",
		AddressID:       addrID("addr-home"),
		GuaranteeMethod: domain.MethodIncome,
		Person: &models.PersonProfile{
			FullName:          "Roberto Avila Cruz",
			Nationality:       domain.NationalityMexican,
			CURP:              "AICR890512HDFNRR08",
			EmploymentStatus:  "EMPLOYED",
			Position:          "Accountant",
			EmployerAddressID: addrID("addr-work"),
		},
		IncomeGuarantee: &models.IncomeGuarantee{
			MonthlyIncome: 60000,
			IncomeSource:  "SALARY",
			BankName:      "BBVA",
		},
		PersonalReferences: []models.PersonalReference{
			{FullName: "Ref One", Phone: "551"},
			{FullName: "Ref Two", Phone: "552"},
			{FullName: "Ref Three", Phone: "553"},
		},
	}
}

// completeCompanyOnProperty builds a company obligado solidario backed
// by property with every block filled.
func completeCompanyOnProperty() *models.Guarantor {
	return &models.Guarantor{
		Role:            domain.RoleObligadoSolidario,
		IsCompany:       true,
		Email:           "legal@inmosol.mx",
		Phone:           "5598765432",
		Relationship:    "Tenant's employer",
		AddressID:       addrID("addr-corp"),
		GuaranteeMethod: domain.MethodProperty,
		Company: &models.CompanyProfile{
			CompanyName:  "Inmobiliaria Sol SA de CV",
			RFC:          "ISO950214AB1",
			LegalRepName: "Patricia Reyes",
		},
		PropertyGuarantee: &models.PropertyGuarantee{
			PropertyValue:     4200000,
			DeedNumber:        "ESC-2031",
			RegistryFolio:     "RPP-55821",
			PropertyAddressID: addrID("addr-prop"),
		},
		CommercialReferences: []models.CommercialReference{
			{CompanyName: "Proveedora del Centro", ContactName: "Luis", Phone: "554"},
		},
	}
}

func TestIsComplete(t *testing.T) {
	t.Run("fully filled person", func(t *testing.T) {
		assert.True(t, IsComplete(completePersonOnIncome()))
	})

	t.Run("fully filled company", func(t *testing.T) {
		assert.True(t, IsComplete(completeCompanyOnProperty()))
	})

	t.Run("missing contact", func(t *testing.T) {
		g := completePersonOnIncome()
		g.Phone = ""
		assert.False(t, IsComplete(g))
	})

	t.Run("missing identity document", func(t *testing.T) {
		g := completePersonOnIncome()
		g.Person.CURP = ""
		assert.False(t, IsComplete(g))
	})

	t.Run("one reference is already enough", func(t *testing.T) {
		g := completePersonOnIncome()
		g.PersonalReferences = g.PersonalReferences[:1]
		assert.True(t, IsComplete(g))
	})

	t.Run("zero references fail", func(t *testing.T) {
		g := completePersonOnIncome()
		g.PersonalReferences = nil
		assert.False(t, IsComplete(g))
	})
}

// The auto-complete flag is deliberately looser than the submission
// gate: between 1 and 2 personal references a guarantor is flagged
// complete but still blocked from submitting.
func TestCompletionSubmissionGap(t *testing.T) {
	g := completePersonOnIncome()
	g.PersonalReferences = g.PersonalReferences[:2]

	assert.True(t, IsComplete(g))

	errs := ValidateForSubmission(g)
	require.Len(t, errs, 1)
	assert.Equal(t, "references", errs[0].Field)
	assert.Equal(t, domain.CodeInsufficient, errs[0].Code)
}

func TestValidateForSubmission(t *testing.T) {
	t.Run("complete person passes", func(t *testing.T) {
		assert.Empty(t, ValidateForSubmission(completePersonOnIncome()))
	})

	t.Run("complete company passes", func(t *testing.T) {
		assert.Empty(t, ValidateForSubmission(completeCompanyOnProperty()))
	})

	t.Run("errors are collected, not short-circuited", func(t *testing.T) {
		g := completePersonOnIncome()
		g.Email = ""
		g.Phone = ""
		g.PersonalReferences = nil

		errs := ValidateForSubmission(g)
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "phone")
		assert.Contains(t, fields, "references")
	})

	t.Run("malformed email", func(t *testing.T) {
		g := completePersonOnIncome()
		g.Email = "not-an-address"
		errs := ValidateForSubmission(g)
		require.Len(t, errs, 1)
		assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
	})

	t.Run("malformed CURP", func(t *testing.T) {
		g := completePersonOnIncome()
		g.Person.CURP = "NOT-A-CURP"
		errs := ValidateForSubmission(g)
		require.Len(t, errs, 1)
		assert.Equal(t, "person.curp", errs[0].Field)
		assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
	})

	t.Run("lowercase CURP still passes", func(t *testing.T) {
		g := completePersonOnIncome()
		g.Person.CURP = "aicr890512hdfnrr08"
		assert.Empty(t, ValidateForSubmission(g))
	})

	t.Run("foreign guarantor needs passport, not CURP", func(t *testing.T) {
		g := completePersonOnIncome()
		g.Person.Nationality = domain.NationalityForeign
		g.Person.CURP = ""

		errs := ValidateForSubmission(g)
		require.Len(t, errs, 1)
		assert.Equal(t, "person.passport_no", errs[0].Field)

		g.Person.PassportNo = "G12345678"
		assert.Empty(t, ValidateForSubmission(g))
	})

	t.Run("malformed company RFC", func(t *testing.T) {
		g := completeCompanyOnProperty()
		g.Company.RFC = "12345"
		errs := ValidateForSubmission(g)
		require.Len(t, errs, 1)
		assert.Equal(t, "company.rfc", errs[0].Field)
		assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
	})

	t.Run("property under legal proceeding is a business-rule block", func(t *testing.T) {
		g := completeCompanyOnProperty()
		g.PropertyGuarantee.UnderLegalProceeding = true

		errs := ValidateForSubmission(g)
		require.Len(t, errs, 1)
		assert.Equal(t, "property_guarantee.under_legal_proceeding", errs[0].Field)
		assert.Equal(t, domain.CodeBusinessRule, errs[0].Code)
	})

	t.Run("fiador without a property guarantee", func(t *testing.T) {
		g := completePersonOnIncome()
		g.Role = domain.RoleFiador
		g.HasPropertyGuarantee = true
		g.GuaranteeMethod = domain.MethodProperty
		g.IncomeGuarantee = nil

		errs := ValidateForSubmission(g)
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		assert.Contains(t, fields, "property_guarantee")
	})

	t.Run("obligado solidario without a chosen method", func(t *testing.T) {
		g := completePersonOnIncome()
		g.GuaranteeMethod = domain.MethodUnset
		g.IncomeGuarantee = nil

		errs := ValidateForSubmission(g)
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		assert.Contains(t, fields, "guarantee_method")
	})
}

func TestCompletionPercentage(t *testing.T) {
	t.Run("full person scores 100", func(t *testing.T) {
		assert.Equal(t, 100, CompletionPercentage(completePersonOnIncome()))
	})

	t.Run("full company scores 100", func(t *testing.T) {
		assert.Equal(t, 100, CompletionPercentage(completeCompanyOnProperty()))
	})

	t.Run("empty shell scores low", func(t *testing.T) {
		g := &models.Guarantor{Role: domain.RoleObligadoSolidario}
		assert.Less(t, CompletionPercentage(g), 10)
	})

	t.Run("filling fields never lowers the score", func(t *testing.T) {
		g := &models.Guarantor{
			Role:  domain.RoleObligadoSolidario,
			Email: "roberto.avila@example.mx",
		}
		prev := CompletionPercentage(g)

		steps := []func(){
			func() { g.Phone = "5512345678" },
			func() { g.Relationship = "Brother of the tenant" },
			func() { g.Person = &models.PersonProfile{FullName: "Roberto Avila Cruz"} },
			func() { g.Person.CURP = "AICR890512HDFNRR08" },
			func() { g.AddressID = addrID("addr-home") },
			func() {
				g.GuaranteeMethod = domain.MethodIncome
				g.IncomeGuarantee = &models.IncomeGuarantee{MonthlyIncome: 60000, IncomeSource: "SALARY"}
			},
			func() { g.IncomeGuarantee.BankName = "BBVA" },
			func() {
				g.Person.EmploymentStatus = "EMPLOYED"
				g.Person.Position = "Accountant"
				g.Person.EmployerAddressID = addrID("addr-work")
			},
			func() {
				g.PersonalReferences = []models.PersonalReference{
					{FullName: "Ref One"}, {FullName: "Ref Two"}, {FullName: "Ref Three"},
				}
			},
		}

		for i, step := range steps {
			step()
			cur := CompletionPercentage(g)
			assert.GreaterOrEqual(t, cur, prev, "step %d lowered the score", i)
			prev = cur
		}
		assert.Equal(t, 100, prev)
	})

	t.Run("references check is met only at the strict minimum", func(t *testing.T) {
		g := completePersonOnIncome()
		full := CompletionPercentage(g)

		g.PersonalReferences = g.PersonalReferences[:2]
		assert.Less(t, CompletionPercentage(g), full)
	})
}
