package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"
)

func addrID(s string) *string { return &s }

func TestMethodInEffect(t *testing.T) {
	tests := []struct {
		name   string
		method domain.GuaranteeMethod
		flag   bool
		want   domain.GuaranteeMethod
	}{
		{"enum property, no flag", domain.MethodProperty, false, domain.MethodProperty},
		{"enum income, no flag", domain.MethodIncome, false, domain.MethodIncome},
		{"nothing set", domain.MethodUnset, false, domain.MethodUnset},
		{"legacy flag only", domain.MethodUnset, true, domain.MethodProperty},
		{"flag overrides income enum", domain.MethodIncome, true, domain.MethodProperty},
		{"flag agrees with property enum", domain.MethodProperty, true, domain.MethodProperty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &models.Guarantor{GuaranteeMethod: tt.method, HasPropertyGuarantee: tt.flag}
			assert.Equal(t, tt.want, MethodInEffect(g))
		})
	}
}

func TestGuaranteeValid(t *testing.T) {
	t.Run("unset method is never valid", func(t *testing.T) {
		assert.False(t, GuaranteeValid(&models.Guarantor{}))
	})

	t.Run("property needs value, deed, address and no legal proceeding", func(t *testing.T) {
		g := &models.Guarantor{
			GuaranteeMethod: domain.MethodProperty,
			PropertyGuarantee: &models.PropertyGuarantee{
				PropertyValue:     2500000,
				DeedNumber:        "ESC-4411",
				PropertyAddressID: addrID("addr-1"),
			},
		}
		assert.True(t, GuaranteeValid(g))

		g.PropertyGuarantee.UnderLegalProceeding = true
		assert.False(t, GuaranteeValid(g))

		g.PropertyGuarantee.UnderLegalProceeding = false
		g.PropertyGuarantee.PropertyAddressID = nil
		assert.False(t, GuaranteeValid(g))
	})

	t.Run("flag in effect but no property record", func(t *testing.T) {
		g := &models.Guarantor{HasPropertyGuarantee: true}
		assert.False(t, GuaranteeValid(g))
	})

	t.Run("income needs positive income and a source", func(t *testing.T) {
		g := &models.Guarantor{
			GuaranteeMethod: domain.MethodIncome,
			IncomeGuarantee: &models.IncomeGuarantee{MonthlyIncome: 60000, IncomeSource: "SALARY"},
		}
		assert.True(t, GuaranteeValid(g))

		g.IncomeGuarantee.MonthlyIncome = 0
		assert.False(t, GuaranteeValid(g))
	})
}

func TestPlanMethodSwitch(t *testing.T) {
	t.Run("fiador never switches", func(t *testing.T) {
		g := &models.Guarantor{Role: domain.RoleFiador, HasPropertyGuarantee: true}
		_, err := PlanMethodSwitch(g, domain.MethodIncome, true)
		assert.ErrorIs(t, err, domain.ErrMethodFixed)
	})

	t.Run("invalid target", func(t *testing.T) {
		g := &models.Guarantor{Role: domain.RoleObligadoSolidario}
		_, err := PlanMethodSwitch(g, domain.GuaranteeMethod("COSIGN"), true)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("clean switch with nothing to clear", func(t *testing.T) {
		g := &models.Guarantor{Role: domain.RoleObligadoSolidario}
		sw, err := PlanMethodSwitch(g, domain.MethodIncome, false)
		require.NoError(t, err)
		assert.Equal(t, domain.MethodIncome, sw.Target)
		assert.False(t, sw.ClearProperty)
		assert.False(t, sw.ClearIncome)
	})

	t.Run("opposite data demands confirmation", func(t *testing.T) {
		g := &models.Guarantor{
			Role:              domain.RoleObligadoSolidario,
			GuaranteeMethod:   domain.MethodProperty,
			PropertyGuarantee: &models.PropertyGuarantee{DeedNumber: "ESC-18"},
		}
		_, err := PlanMethodSwitch(g, domain.MethodIncome, false)
		assert.ErrorIs(t, err, domain.ErrConfirmationNeeded)

		sw, err := PlanMethodSwitch(g, domain.MethodIncome, true)
		require.NoError(t, err)
		assert.True(t, sw.ClearProperty)
		assert.False(t, sw.ClearIncome)
	})

	t.Run("empty sub-record does not demand confirmation", func(t *testing.T) {
		g := &models.Guarantor{
			Role:              domain.RoleObligadoSolidario,
			GuaranteeMethod:   domain.MethodProperty,
			PropertyGuarantee: &models.PropertyGuarantee{},
		}
		sw, err := PlanMethodSwitch(g, domain.MethodIncome, false)
		require.NoError(t, err)
		assert.False(t, sw.ClearProperty)
	})

	t.Run("switch away and back clears the first method's data", func(t *testing.T) {
		g := &models.Guarantor{
			Role:              domain.RoleObligadoSolidario,
			GuaranteeMethod:   domain.MethodProperty,
			PropertyGuarantee: &models.PropertyGuarantee{PropertyValue: 1800000, DeedNumber: "ESC-77"},
		}

		sw, err := PlanMethodSwitch(g, domain.MethodIncome, true)
		require.NoError(t, err)
		require.True(t, sw.ClearProperty)

		// Apply the plan the way the repository transaction would.
		g.GuaranteeMethod = sw.Target
		g.PropertyGuarantee = nil

		// Switching back finds nothing to resurrect and nothing to confirm.
		sw, err = PlanMethodSwitch(g, domain.MethodProperty, false)
		require.NoError(t, err)
		assert.False(t, sw.ClearIncome)
		assert.Nil(t, g.PropertyGuarantee)
	})
}
