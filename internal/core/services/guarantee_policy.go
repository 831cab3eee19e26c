package services

import (
	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"
)

// ============================================================
// Guarantee Method Policy
// ============================================================

// MethodInEffect resolves which guarantee method governs a guarantor.
// The legacy HasPropertyGuarantee flag wins over the enum: imported
// records may carry only the flag, so PROPERTY is in effect whenever
// the flag is set, even if the enum says INCOME. INCOME is in effect
// only when the enum says so and the flag is off.
func MethodInEffect(g *models.Guarantor) domain.GuaranteeMethod {
	if g.GuaranteeMethod == domain.MethodProperty || g.HasPropertyGuarantee {
		return domain.MethodProperty
	}
	if g.GuaranteeMethod == domain.MethodIncome {
		return domain.MethodIncome
	}
	return domain.MethodUnset
}

// GuaranteeValid reports whether the data of the method in effect is
// internally valid. UNSET is never valid.
func GuaranteeValid(g *models.Guarantor) bool {
	switch MethodInEffect(g) {
	case domain.MethodProperty:
		p := g.PropertyGuarantee
		return p != nil &&
			p.PropertyValue > 0 &&
			p.DeedNumber != "" &&
			p.PropertyAddressID != nil &&
			!p.UnderLegalProceeding
	case domain.MethodIncome:
		i := g.IncomeGuarantee
		return i != nil && i.MonthlyIncome > 0 && i.IncomeSource != ""
	default:
		return false
	}
}

// GuaranteeChecklist returns the four scoring checks for the method in
// effect. With no method in effect all four checks count as unmet.
func GuaranteeChecklist(g *models.Guarantor) [4]bool {
	switch MethodInEffect(g) {
	case domain.MethodProperty:
		p := g.PropertyGuarantee
		if p == nil {
			return [4]bool{}
		}
		return [4]bool{
			p.PropertyValue > 0,
			p.DeedNumber != "",
			p.PropertyAddressID != nil,
			p.RegistryFolio != "" || p.TaxAccount != "",
		}
	case domain.MethodIncome:
		i := g.IncomeGuarantee
		if i == nil {
			return [4]bool{}
		}
		employerAddr := g.Person != nil && g.Person.EmployerAddressID != nil
		return [4]bool{
			i.MonthlyIncome > 0,
			i.IncomeSource != "",
			i.BankName != "",
			employerAddr,
		}
	default:
		return [4]bool{}
	}
}

// MethodSwitch is the plan for an atomic guarantee-method change.
// ClearProperty/ClearIncome name the opposite method's sub-records to
// null out in the same transaction as the method update.
type MethodSwitch struct {
	Target        domain.GuaranteeMethod
	ClearProperty bool
	ClearIncome   bool
}

// PlanMethodSwitch validates a method change and returns the transform
// to apply. A fiador never switches. When the opposite method already
// holds real data the caller must confirm the data loss explicitly;
// refusal is an error, not a silent no-op.
func PlanMethodSwitch(g *models.Guarantor, target domain.GuaranteeMethod, confirmDataLoss bool) (*MethodSwitch, error) {
	if target != domain.MethodProperty && target != domain.MethodIncome {
		return nil, domain.ErrInvalidInput
	}
	if g.IsFiador() {
		return nil, domain.ErrMethodFixed
	}

	sw := &MethodSwitch{Target: target}
	switch target {
	case domain.MethodProperty:
		sw.ClearIncome = hasIncomeData(g)
	case domain.MethodIncome:
		sw.ClearProperty = hasPropertyData(g)
	}

	if (sw.ClearIncome || sw.ClearProperty) && !confirmDataLoss {
		return nil, domain.ErrConfirmationNeeded
	}
	return sw, nil
}

func hasPropertyData(g *models.Guarantor) bool {
	p := g.PropertyGuarantee
	if p == nil {
		return false
	}
	return p.PropertyValue > 0 || p.DeedNumber != "" || p.RegistryFolio != "" ||
		p.TaxAccount != "" || p.PropertyAddressID != nil
}

func hasIncomeData(g *models.Guarantor) bool {
	i := g.IncomeGuarantee
	if i == nil {
		return false
	}
	return i.MonthlyIncome > 0 || i.IncomeSource != "" || i.BankName != "" || i.AccountHolder != ""
}
