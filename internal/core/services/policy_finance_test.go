package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentaguard/internal/adapters/persistence/models"
)

func TestIncomeToRentRatio(t *testing.T) {
	// 60000 against 20000 lands exactly on the threshold.
	assert.Equal(t, 3.0, IncomeToRentRatio(60000, 20000))
	assert.True(t, MeetsIncomeThreshold(60000, 20000))

	assert.False(t, MeetsIncomeThreshold(59999.99, 20000))
	assert.True(t, MeetsIncomeThreshold(90000, 20000))

	// Degenerate rents never divide.
	assert.Equal(t, 0.0, IncomeToRentRatio(60000, 0))
	assert.Equal(t, 0.0, IncomeToRentRatio(60000, -100))
}

func TestGuarantorIncomeRatio(t *testing.T) {
	policy := &models.RentalPolicy{MonthlyRent: 20000}

	g := &models.Guarantor{
		IncomeGuarantee: &models.IncomeGuarantee{MonthlyIncome: 60000},
	}
	assert.Equal(t, 3.0, GuarantorIncomeRatio(g, policy))

	assert.Equal(t, 0.0, GuarantorIncomeRatio(&models.Guarantor{}, policy))
	assert.Equal(t, 0.0, GuarantorIncomeRatio(nil, policy))
	assert.Equal(t, 0.0, GuarantorIncomeRatio(g, nil))
}

func TestPolicyUpfrontTotal(t *testing.T) {
	policy := &models.RentalPolicy{MonthlyRent: 20000, DepositAmount: 20000, PolicyFee: 7500}
	assert.Equal(t, 47500.0, PolicyUpfrontTotal(policy))
	assert.Equal(t, 0.0, PolicyUpfrontTotal(nil))
}

func TestBuildPolicyFinanceSummary(t *testing.T) {
	policy := &models.RentalPolicy{ID: "policy-1", MonthlyRent: 20000, DepositAmount: 20000, PolicyFee: 7500}
	guarantors := []*models.Guarantor{
		{ID: "g-1", IncomeGuarantee: &models.IncomeGuarantee{MonthlyIncome: 60000}},
		{ID: "g-2", PropertyGuarantee: &models.PropertyGuarantee{DeedNumber: "ESC-5"}},
		{ID: "g-3", IncomeGuarantee: &models.IncomeGuarantee{MonthlyIncome: 45000}},
	}

	summary := BuildPolicyFinanceSummary(policy, guarantors)

	assert.Equal(t, 47500.0, summary.UpfrontTotal)
	// Only income-backed guarantors are screened.
	assert.Len(t, summary.IncomeChecks, 2)
	assert.Equal(t, GuarantorIncomeCheck{GuarantorID: "g-1", IncomeToRentRatio: 3.0, MeetsThreshold: true}, summary.IncomeChecks[0])
	assert.Equal(t, GuarantorIncomeCheck{GuarantorID: "g-3", IncomeToRentRatio: 2.25, MeetsThreshold: false}, summary.IncomeChecks[1])

	empty := BuildPolicyFinanceSummary(policy, nil)
	assert.Empty(t, empty.IncomeChecks)
}
