package services

import "rentaguard/internal/adapters/persistence/models"

// MinIncomeToRentRatio is the screening threshold for income-backed
// guarantors: declared monthly income must cover at least three times
// the monthly rent.
const MinIncomeToRentRatio = 3.0

// IncomeToRentRatio returns income divided by rent. A zero or negative
// rent yields 0 rather than a division blow-up.
func IncomeToRentRatio(monthlyIncome, monthlyRent float64) float64 {
	if monthlyRent <= 0 {
		return 0
	}
	return monthlyIncome / monthlyRent
}

// MeetsIncomeThreshold reports whether the declared income clears the
// screening ratio for the given rent.
func MeetsIncomeThreshold(monthlyIncome, monthlyRent float64) bool {
	return IncomeToRentRatio(monthlyIncome, monthlyRent) >= MinIncomeToRentRatio
}

// GuarantorIncomeRatio evaluates an income-backed guarantor against its
// policy's rent. Guarantors on the property method, or with no income
// record, score 0.
func GuarantorIncomeRatio(g *models.Guarantor, policy *models.RentalPolicy) float64 {
	if g == nil || policy == nil || g.IncomeGuarantee == nil {
		return 0
	}
	return IncomeToRentRatio(g.IncomeGuarantee.MonthlyIncome, policy.MonthlyRent)
}

// PolicyUpfrontTotal is the amount due at signing: first month's rent
// plus deposit plus the policy fee.
func PolicyUpfrontTotal(policy *models.RentalPolicy) float64 {
	if policy == nil {
		return 0
	}
	return policy.MonthlyRent + policy.DepositAmount + policy.PolicyFee
}

// GuarantorIncomeCheck is one guarantor's income screening against the
// policy's rent. Property-method guarantors carry a zero ratio.
type GuarantorIncomeCheck struct {
	GuarantorID       string  `json:"guarantor_id"`
	IncomeToRentRatio float64 `json:"income_to_rent_ratio"`
	MeetsThreshold    bool    `json:"meets_threshold"`
}

// PolicyFinanceSummary aggregates the signing total and the income
// screening for every income-backed guarantor on the policy.
type PolicyFinanceSummary struct {
	UpfrontTotal float64                `json:"upfront_total"`
	IncomeChecks []GuarantorIncomeCheck `json:"income_checks"`
}

// BuildPolicyFinanceSummary computes the finance summary for a policy
// and its guarantors. Guarantors without an income record are skipped.
func BuildPolicyFinanceSummary(policy *models.RentalPolicy, guarantors []*models.Guarantor) *PolicyFinanceSummary {
	summary := &PolicyFinanceSummary{
		UpfrontTotal: PolicyUpfrontTotal(policy),
		IncomeChecks: []GuarantorIncomeCheck{},
	}
	for _, g := range guarantors {
		if g.IncomeGuarantee == nil {
			continue
		}
		ratio := GuarantorIncomeRatio(g, policy)
		summary.IncomeChecks = append(summary.IncomeChecks, GuarantorIncomeCheck{
			GuarantorID:       g.ID,
			IncomeToRentRatio: ratio,
			MeetsThreshold:    MeetsIncomeThreshold(g.IncomeGuarantee.MonthlyIncome, policy.MonthlyRent),
		})
	}
	return summary
}
