package services

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"
)

// ============================================================
// Guarantor Completeness Evaluator
// ============================================================

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	curpPattern  = regexp.MustCompile(`^[A-Z]{4}\d{6}[HM][A-Z]{5}[A-Z0-9]\d$`)
	rfcPattern   = regexp.MustCompile(`^[A-ZÑ&]{3,4}\d{6}[A-Z0-9]{3}$`)
)

// IsComplete is the pre-check used to auto-flag a guarantor as
// information-complete. It only needs at least one reference, which is
// looser than the submission minimum; ValidateForSubmission enforces
// the strict per-kind count. Both behaviors are kept as-is.
func IsComplete(g *models.Guarantor) bool {
	if g.Email == "" || g.Phone == "" || g.Relationship == "" {
		return false
	}
	if !GuaranteeValid(g) {
		return false
	}
	if g.IsCompany {
		c := g.Company
		if c == nil || c.CompanyName == "" || c.RFC == "" || c.LegalRepName == "" {
			return false
		}
	} else {
		p := g.Person
		if p == nil || p.FullName == "" || p.IdentityDocument() == "" {
			return false
		}
	}
	return g.ReferenceCount() >= 1
}

// CompletionPercentage computes the weighted 0-100 completion score.
// Blocks: contact (4 checks), guarantee (4, method-specific), legal
// person (5 for an individual, 4 for a company), references (1 check,
// met only at the strict submission minimum).
func CompletionPercentage(g *models.Guarantor) int {
	satisfied, applicable := 0, 0

	count := func(checks ...bool) {
		for _, ok := range checks {
			applicable++
			if ok {
				satisfied++
			}
		}
	}

	// Contact block
	count(
		g.Email != "",
		g.Phone != "",
		g.Relationship != "",
		MethodInEffect(g) != domain.MethodUnset,
	)

	// Guarantee block
	checklist := GuaranteeChecklist(g)
	count(checklist[:]...)

	// Legal-person block
	if g.IsCompany {
		c := g.Company
		if c != nil {
			count(c.CompanyName != "", c.RFC != "", c.LegalRepName != "", g.AddressID != nil)
		} else {
			count(false, false, false, false)
		}
	} else {
		p := g.Person
		if p != nil {
			count(
				p.FullName != "",
				p.IdentityDocument() != "",
				g.AddressID != nil,
				p.EmploymentStatus != "",
				p.Position != "",
			)
		} else {
			count(false, false, false, false, false)
		}
	}

	// References block: a single check at the strict minimum
	count(g.ReferenceCount() >= MinimumReferences(g.IsCompany))

	if applicable == 0 {
		return 0
	}
	return int(math.Round(100 * float64(satisfied) / float64(applicable)))
}

// ValidateForSubmission re-checks everything IsComplete does plus the
// legal-proceeding rule, the strict reference minimum and the
// role-specific guarantee requirement. Errors are collected, not
// short-circuited; an empty slice means the guarantor is submittable.
func ValidateForSubmission(g *models.Guarantor) []domain.ValidationError {
	var errs []domain.ValidationError

	add := func(field, message, code string) {
		errs = append(errs, domain.ValidationError{Field: field, Message: message, Code: code})
	}

	// Contact block
	if g.Email == "" {
		add("email", "Email is required", domain.CodeRequired)
	} else if !emailPattern.MatchString(g.Email) {
		add("email", "Email is not a valid address", domain.CodeInvalidFormat)
	}
	if g.Phone == "" {
		add("phone", "Phone is required", domain.CodeRequired)
	}
	if g.Relationship == "" {
		add("relationship", "Relationship to the tenant is required", domain.CodeRequired)
	}

	// Guarantee block. A fiador must have a property guarantee at all;
	// an obligado solidario only needs some method chosen.
	method := MethodInEffect(g)
	if g.IsFiador() && g.PropertyGuarantee == nil {
		add("property_guarantee", "A fiador must provide a property guarantee", domain.CodeRequired)
	}
	switch method {
	case domain.MethodUnset:
		if !g.IsFiador() {
			add("guarantee_method", "A guarantee method must be chosen", domain.CodeRequired)
		}
	case domain.MethodProperty:
		p := g.PropertyGuarantee
		if p == nil {
			if !g.IsFiador() {
				add("property_guarantee", "Property guarantee data is required", domain.CodeRequired)
			}
		} else {
			if p.PropertyValue <= 0 {
				add("property_guarantee.property_value", "Property value must be greater than zero", domain.CodeRequired)
			}
			if p.DeedNumber == "" {
				add("property_guarantee.deed_number", "Deed number is required", domain.CodeRequired)
			}
			if p.PropertyAddressID == nil {
				add("property_guarantee.property_address_id", "Property address is required", domain.CodeRequired)
			}
			if p.UnderLegalProceeding {
				add("property_guarantee.under_legal_proceeding", "A property under legal proceeding cannot back a lease", domain.CodeBusinessRule)
			}
		}
	case domain.MethodIncome:
		i := g.IncomeGuarantee
		if i == nil {
			add("income_guarantee", "Income guarantee data is required", domain.CodeRequired)
		} else {
			if i.MonthlyIncome <= 0 {
				add("income_guarantee.monthly_income", "Monthly income must be greater than zero", domain.CodeRequired)
			}
			if i.IncomeSource == "" {
				add("income_guarantee.income_source", "Income source is required", domain.CodeRequired)
			}
		}
	}

	// Legal-person block
	if g.IsCompany {
		c := g.Company
		if c == nil {
			add("company", "Company data is required", domain.CodeRequired)
		} else {
			if c.CompanyName == "" {
				add("company.company_name", "Company name is required", domain.CodeRequired)
			}
			if c.RFC == "" {
				add("company.rfc", "Company RFC is required", domain.CodeRequired)
			} else if !rfcPattern.MatchString(strings.ToUpper(c.RFC)) {
				add("company.rfc", "Company RFC is malformed", domain.CodeInvalidFormat)
			}
			if c.LegalRepName == "" {
				add("company.legal_rep_name", "Legal representative name is required", domain.CodeRequired)
			}
		}
	} else {
		p := g.Person
		if p == nil {
			add("person", "Person data is required", domain.CodeRequired)
		} else {
			if p.FullName == "" {
				add("person.full_name", "Full name is required", domain.CodeRequired)
			}
			if p.Nationality == domain.NationalityForeign {
				if p.PassportNo == "" {
					add("person.passport_no", "Passport number is required for foreign guarantors", domain.CodeRequired)
				}
			} else {
				if p.CURP == "" {
					add("person.curp", "CURP is required for Mexican guarantors", domain.CodeRequired)
				} else if !curpPattern.MatchString(strings.ToUpper(p.CURP)) {
					add("person.curp", "CURP is malformed", domain.CodeInvalidFormat)
				}
			}
		}
	}

	// References block: strict minimum
	minimum := MinimumReferences(g.IsCompany)
	if total := g.ReferenceCount(); total < minimum {
		kind := "personal"
		if g.IsCompany {
			kind = "commercial"
		}
		add("references",
			fmt.Sprintf("At least %d %s reference(s) required, %d provided", minimum, kind, total),
			domain.CodeInsufficient)
	}

	return errs
}
