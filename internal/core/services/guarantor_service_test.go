package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"
)

type guarantorServiceFixture struct {
	svc       *GuarantorService
	repo      *fakeGuarantorRepo
	policies  *fakePolicyRepo
	documents *fakeDocuments
	activity  *fakeActivity
	checker   *fakeChecker
}

func newGuarantorServiceFixture() *guarantorServiceFixture {
	f := &guarantorServiceFixture{
		repo:      newFakeGuarantorRepo(),
		policies:  newFakePolicyRepo(&models.RentalPolicy{ID: "policy-1", Folio: "RG-20260829-A1B2C3", MonthlyRent: 20000}),
		documents: newFakeDocuments(),
		activity:  &fakeActivity{},
		checker:   &fakeChecker{},
	}
	f.svc = NewGuarantorService(
		f.repo,
		f.policies,
		NewAccessTokenService(f.repo, f.activity),
		&fakeAddresses{},
		f.documents,
		f.activity,
		f.checker,
	)
	return f
}

func strPtr(s string) *string { return &s }

func TestGuarantorCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("fiador starts locked to property", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g, err := f.svc.Create(ctx, &CreateGuarantorInput{
			PolicyID: "policy-1",
			Role:     domain.RoleFiador,
			Email:    "fiador@example.mx",
			Phone:    "5511112222",
		}, "agent-1", "10.0.0.1")
		require.NoError(t, err)

		assert.Equal(t, domain.MethodProperty, g.GuaranteeMethod)
		assert.True(t, g.HasPropertyGuarantee)
		assert.Equal(t, domain.VerificationPending, g.VerificationStatus)
		require.NotNil(t, g.Person)
		assert.Equal(t, domain.NationalityMexican, g.Person.Nationality)
		assert.Nil(t, g.Company)

		require.NotNil(t, g.AccessToken)
		assert.Len(t, *g.AccessToken, 64)
		assert.NotNil(t, g.TokenExpiresAt)

		assert.Equal(t, []string{domain.ActionGuarantorCreated}, f.activity.actions())
	})

	t.Run("obligado solidario starts with no method", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g, err := f.svc.Create(ctx, &CreateGuarantorInput{
			PolicyID: "policy-1",
			Role:     domain.RoleObligadoSolidario,
			Email:    "os@example.mx",
			Phone:    "5533334444",
		}, "agent-1", "10.0.0.1")
		require.NoError(t, err)

		assert.Equal(t, domain.MethodUnset, g.GuaranteeMethod)
		assert.False(t, g.HasPropertyGuarantee)
	})

	t.Run("company variant gets a company shell", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g, err := f.svc.Create(ctx, &CreateGuarantorInput{
			PolicyID:  "policy-1",
			Role:      domain.RoleObligadoSolidario,
			IsCompany: true,
			Email:     "legal@empresa.mx",
			Phone:     "5555556666",
		}, "agent-1", "10.0.0.1")
		require.NoError(t, err)

		assert.NotNil(t, g.Company)
		assert.Nil(t, g.Person)
	})

	t.Run("unknown policy", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		_, err := f.svc.Create(ctx, &CreateGuarantorInput{
			PolicyID: "missing",
			Role:     domain.RoleFiador,
			Email:    "x@example.mx",
			Phone:    "55",
		}, "agent-1", "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrPolicyNotFound)
	})
}

func TestGuarantorUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("person patch on a company is rejected before persisting", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{PolicyID: "policy-1", IsCompany: true, Email: "a@b.mx"})

		_, err := f.svc.Update(ctx, g.ID, &UpdateGuarantorInput{
			Person: &PersonPatch{FullName: strPtr("Someone")},
		}, "agent-1", "")
		assert.ErrorIs(t, err, domain.ErrKindMismatch)
		assert.Equal(t, "a@b.mx", g.Email)
	})

	t.Run("company patch on an individual is rejected", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{PolicyID: "policy-1"})

		_, err := f.svc.Update(ctx, g.ID, &UpdateGuarantorInput{
			Company: &CompanyPatch{CompanyName: strPtr("Empresa SA")},
		}, "agent-1", "")
		assert.ErrorIs(t, err, domain.ErrKindMismatch)
	})

	t.Run("CURP is stored uppercase", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{PolicyID: "policy-1", Person: &models.PersonProfile{}})
		g.Person.GuarantorID = g.ID

		got, err := f.svc.Update(ctx, g.ID, &UpdateGuarantorInput{
			Person: &PersonPatch{CURP: strPtr("aicr890512hdfnrr08")},
		}, "agent-1", "")
		require.NoError(t, err)
		assert.Equal(t, "AICR890512HDFNRR08", got.Person.CURP)
	})

	t.Run("address sub-object is upserted and only the id stored", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{PolicyID: "policy-1"})

		got, err := f.svc.Update(ctx, g.ID, &UpdateGuarantorInput{
			Address: &AddressInput{Street: "Av. Reforma 100", City: "CDMX", State: "CDMX", ZipCode: "06600"},
		}, "agent-1", "")
		require.NoError(t, err)
		require.NotNil(t, got.AddressID)
		assert.Equal(t, "addr-1", *got.AddressID)
	})

	t.Run("patch that completes the record auto-flags it once", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(completePersonOnIncome())
		g.PolicyID = "policy-1"
		g.Person.GuarantorID = g.ID
		g.Relationship = "" // the one missing field

		got, err := f.svc.Update(ctx, g.ID, &UpdateGuarantorInput{
			Relationship: strPtr("Brother of the tenant"),
		}, "agent-1", "")
		require.NoError(t, err)

		assert.True(t, got.InformationComplete)
		assert.NotNil(t, got.CompletedAt)
		assert.Equal(t,
			[]string{domain.ActionInfoCompleted, domain.ActionGuarantorUpdated},
			f.activity.actions())

		// A later patch does not re-fire the completion event.
		_, err = f.svc.Update(ctx, g.ID, &UpdateGuarantorInput{
			Phone: strPtr("5500000000"),
		}, "agent-1", "")
		require.NoError(t, err)
		assert.Equal(t,
			[]string{domain.ActionInfoCompleted, domain.ActionGuarantorUpdated, domain.ActionGuarantorUpdated},
			f.activity.actions())
	})

	t.Run("income patch on a fiador fails, method is fixed", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{
			PolicyID:             "policy-1",
			Role:                 domain.RoleFiador,
			GuaranteeMethod:      domain.MethodProperty,
			HasPropertyGuarantee: true,
		})

		_, err := f.svc.Update(ctx, g.ID, &UpdateGuarantorInput{
			IncomeGuarantee: &IncomeGuaranteePatch{MonthlyIncome: float64Ptr(60000)},
		}, "agent-1", "")
		assert.ErrorIs(t, err, domain.ErrMethodFixed)
	})

	t.Run("income patch silently adopts the method when nothing is lost", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{PolicyID: "policy-1", Role: domain.RoleObligadoSolidario})

		got, err := f.svc.Update(ctx, g.ID, &UpdateGuarantorInput{
			IncomeGuarantee: &IncomeGuaranteePatch{MonthlyIncome: float64Ptr(60000), IncomeSource: strPtr("SALARY")},
		}, "agent-1", "")
		require.NoError(t, err)
		assert.Equal(t, domain.MethodIncome, got.GuaranteeMethod)
		require.NotNil(t, got.IncomeGuarantee)
		assert.Equal(t, 60000.0, got.IncomeGuarantee.MonthlyIncome)
	})

	t.Run("income patch over saved property data demands an explicit switch", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{
			PolicyID:          "policy-1",
			Role:              domain.RoleObligadoSolidario,
			GuaranteeMethod:   domain.MethodProperty,
			PropertyGuarantee: &models.PropertyGuarantee{DeedNumber: "ESC-9"},
		})

		_, err := f.svc.Update(ctx, g.ID, &UpdateGuarantorInput{
			IncomeGuarantee: &IncomeGuaranteePatch{MonthlyIncome: float64Ptr(60000)},
		}, "agent-1", "")
		assert.ErrorIs(t, err, domain.ErrConfirmationNeeded)
	})
}

func float64Ptr(f float64) *float64 { return &f }

func TestGuarantorSetGuaranteeMethod(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed switch clears the opposite data", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{
			PolicyID:          "policy-1",
			Role:              domain.RoleObligadoSolidario,
			GuaranteeMethod:   domain.MethodProperty,
			PropertyGuarantee: &models.PropertyGuarantee{PropertyValue: 1500000, DeedNumber: "ESC-5"},
		})

		got, err := f.svc.SetGuaranteeMethod(ctx, g.ID, domain.MethodIncome, true, "agent-1", "")
		require.NoError(t, err)
		assert.Equal(t, domain.MethodIncome, got.GuaranteeMethod)
		assert.False(t, got.HasPropertyGuarantee)
		assert.Nil(t, got.PropertyGuarantee)
		assert.Contains(t, f.activity.actions(), domain.ActionMethodChanged)
	})

	t.Run("clearing property also clears marital and spouse fields", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{
			PolicyID:             "policy-1",
			Role:                 domain.RoleObligadoSolidario,
			GuaranteeMethod:      domain.MethodProperty,
			HasPropertyGuarantee: true,
			PropertyGuarantee:    &models.PropertyGuarantee{PropertyValue: 1500000, DeedNumber: "ESC-5"},
			Person: &models.PersonProfile{
				FullName:      "Ana Duarte",
				MaritalStatus: domain.MaritalMarriedJointProperty,
				SpouseName:    "Luis Duarte",
				SpouseIDNo:    "DULU800101HDFRRS02",
			},
		})

		got, err := f.svc.SetGuaranteeMethod(ctx, g.ID, domain.MethodIncome, true, "agent-1", "")
		require.NoError(t, err)
		assert.Nil(t, got.PropertyGuarantee)
		assert.Empty(t, got.Person.MaritalStatus)
		assert.Empty(t, got.Person.SpouseName)
		assert.Empty(t, got.Person.SpouseIDNo)
		assert.Equal(t, "Ana Duarte", got.Person.FullName)
	})

	t.Run("unconfirmed switch over data is refused", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{
			PolicyID:          "policy-1",
			Role:              domain.RoleObligadoSolidario,
			GuaranteeMethod:   domain.MethodProperty,
			PropertyGuarantee: &models.PropertyGuarantee{DeedNumber: "ESC-5"},
		})

		_, err := f.svc.SetGuaranteeMethod(ctx, g.ID, domain.MethodIncome, false, "agent-1", "")
		assert.ErrorIs(t, err, domain.ErrConfirmationNeeded)
		assert.NotNil(t, g.PropertyGuarantee)
	})
}

func TestGuarantorReferences(t *testing.T) {
	ctx := context.Background()

	t.Run("personal references on a company are rejected", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{PolicyID: "policy-1", IsCompany: true})

		err := f.svc.SavePersonalReferences(ctx, g.ID,
			BuildPersonalReferences(g.ID, []PersonalReferenceInput{{FullName: "Ref"}}), "agent-1", "")
		assert.ErrorIs(t, err, domain.ErrKindMismatch)
	})

	t.Run("save is a full replace", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{
			PolicyID:           "policy-1",
			PersonalReferences: []models.PersonalReference{{FullName: "Old One"}, {FullName: "Old Two"}},
		})

		err := f.svc.SavePersonalReferences(ctx, g.ID,
			BuildPersonalReferences(g.ID, []PersonalReferenceInput{{FullName: "New Only"}}), "agent-1", "")
		require.NoError(t, err)

		require.Len(t, g.PersonalReferences, 1)
		assert.Equal(t, "New Only", g.PersonalReferences[0].FullName)

		last := f.activity.entries[len(f.activity.entries)-1]
		assert.Equal(t, domain.ActionReferencesSaved, last.Action)
		assert.Equal(t, "1 personal", last.Detail)
	})
}

func TestGuarantorCanSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("missing documents keep the gate closed", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(completePersonOnIncome())
		g.PolicyID = "policy-1"

		verdict, err := f.svc.CanSubmit(ctx, g.ID)
		require.NoError(t, err)
		assert.False(t, verdict.CanSubmit)
		assert.True(t, verdict.GuaranteeMethodValid)
		assert.Empty(t, verdict.MissingRequirements)
		assert.ElementsMatch(t, []string{"OFFICIAL_ID", "PROOF_OF_ADDRESS"}, verdict.MissingDocuments)
	})

	t.Run("gate opens once documents land", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(completePersonOnIncome())
		g.PolicyID = "policy-1"
		f.documents.register(g.ID, "OFFICIAL_ID")
		f.documents.register(g.ID, "PROOF_OF_ADDRESS")

		verdict, err := f.svc.CanSubmit(ctx, g.ID)
		require.NoError(t, err)
		assert.True(t, verdict.CanSubmit)
	})

	t.Run("spouse consent adds three document requirements", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := completeCompanyOnProperty()
		g.IsCompany = false
		g.Company = nil
		g.HasPropertyGuarantee = true
		g.Person = &models.PersonProfile{
			FullName:      "Laura Mendoza",
			Nationality:   domain.NationalityMexican,
			CURP:          "MELA820101MDFNRR04",
			MaritalStatus: domain.MaritalMarriedJointProperty,
		}
		g.CommercialReferences = nil
		g.PersonalReferences = []models.PersonalReference{
			{FullName: "R1"}, {FullName: "R2"}, {FullName: "R3"},
		}
		f.repo.add(g)
		g.PolicyID = "policy-1"
		f.documents.register(g.ID, "OFFICIAL_ID")
		f.documents.register(g.ID, "PROOF_OF_ADDRESS")

		verdict, err := f.svc.CanSubmit(ctx, g.ID)
		require.NoError(t, err)
		assert.False(t, verdict.CanSubmit)
		assert.ElementsMatch(t,
			[]string{DocMarriageCertificate, DocSpouseID, DocSpouseConsentLetter},
			verdict.MissingDocuments)
	})
}

func TestGuarantorSubmit(t *testing.T) {
	ctx := context.Background()

	submittable := func(f *guarantorServiceFixture) *models.Guarantor {
		g := f.repo.add(completePersonOnIncome())
		g.PolicyID = "policy-1"
		f.documents.register(g.ID, "OFFICIAL_ID")
		f.documents.register(g.ID, "PROOF_OF_ADDRESS")
		return g
	}

	t.Run("closed gate fails fast and cites every miss", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(completePersonOnIncome())
		g.PolicyID = "policy-1"
		g.PersonalReferences = nil

		_, err := f.svc.Submit(ctx, g.ID, "agent-1", "")
		require.ErrorIs(t, err, domain.ErrNotSubmittable)
		assert.Contains(t, err.Error(), "reference")
		assert.Contains(t, err.Error(), "OFFICIAL_ID")
		assert.Nil(t, g.SubmittedAt)
		assert.Empty(t, f.checker.checked)
	})

	t.Run("open gate submits and kicks the policy check", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := submittable(f)

		got, err := f.svc.Submit(ctx, g.ID, "agent-1", "")
		require.NoError(t, err)
		assert.NotNil(t, got.SubmittedAt)
		assert.True(t, got.InformationComplete)
		assert.Contains(t, f.activity.actions(), domain.ActionSubmitted)
		assert.Equal(t, []string{"policy-1"}, f.checker.checked)
	})

	t.Run("resubmission is rejected", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := submittable(f)

		_, err := f.svc.Submit(ctx, g.ID, "agent-1", "")
		require.NoError(t, err)

		_, err = f.svc.Submit(ctx, g.ID, "agent-1", "")
		assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	})
}

func TestGuarantorSetVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection requires a reason", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{PolicyID: "policy-1"})

		_, err := f.svc.SetVerification(ctx, g.ID, &SetVerificationInput{
			Status: domain.VerificationRejected,
		}, "admin-1", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		got, err := f.svc.SetVerification(ctx, g.ID, &SetVerificationInput{
			Status: domain.VerificationRejected,
			Reason: "Illegible deed copy",
		}, "admin-1", "")
		require.NoError(t, err)
		assert.Equal(t, domain.VerificationRejected, got.VerificationStatus)
		require.NotNil(t, got.RejectionReason)
		assert.Equal(t, "Illegible deed copy", *got.RejectionReason)
	})

	t.Run("approval carries no reason", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g := f.repo.add(&models.Guarantor{PolicyID: "policy-1"})

		got, err := f.svc.SetVerification(ctx, g.ID, &SetVerificationInput{
			Status: domain.VerificationApproved,
		}, "admin-1", "")
		require.NoError(t, err)
		assert.Equal(t, domain.VerificationApproved, got.VerificationStatus)
		assert.Nil(t, got.RejectionReason)
	})
}

func TestGuarantorTokenOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshot over a valid token", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g, err := f.svc.Create(ctx, &CreateGuarantorInput{
			PolicyID: "policy-1",
			Role:     domain.RoleObligadoSolidario,
			Email:    "os@example.mx",
			Phone:    "5533334444",
		}, "agent-1", "")
		require.NoError(t, err)

		snap, err := f.svc.GetByToken(ctx, *g.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, g.ID, snap.Guarantor.ID)
		assert.False(t, snap.Completion.IsComplete)
		assert.Greater(t, snap.RemainingHours, 0)
	})

	t.Run("update through the token acts as the guarantor", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g, err := f.svc.Create(ctx, &CreateGuarantorInput{
			PolicyID: "policy-1",
			Role:     domain.RoleObligadoSolidario,
			Email:    "os@example.mx",
			Phone:    "5533334444",
		}, "agent-1", "")
		require.NoError(t, err)

		got, err := f.svc.UpdateByToken(ctx, *g.AccessToken, &UpdateGuarantorInput{
			Relationship: strPtr("Uncle of the tenant"),
		}, "203.0.113.9")
		require.NoError(t, err)
		assert.Equal(t, "Uncle of the tenant", got.Relationship)

		last := f.activity.entries[len(f.activity.entries)-1]
		assert.Equal(t, "TOKEN", last.ActorID)
	})

	t.Run("expired token blocks everything", func(t *testing.T) {
		f := newGuarantorServiceFixture()
		g, err := f.svc.Create(ctx, &CreateGuarantorInput{
			PolicyID: "policy-1",
			Role:     domain.RoleObligadoSolidario,
			Email:    "os@example.mx",
			Phone:    "5533334444",
		}, "agent-1", "")
		require.NoError(t, err)

		past := time.Now().Add(-time.Hour)
		f.repo.guarantors[g.ID].TokenExpiresAt = &past

		_, err = f.svc.GetByToken(ctx, *g.AccessToken)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)

		_, err = f.svc.SubmitByToken(ctx, *g.AccessToken, "")
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})
}
