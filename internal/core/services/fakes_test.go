package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"
)

// In-memory collaborators for service tests. They mirror the contracts
// the GORM-backed implementations honor, down to gorm.ErrRecordNotFound
// on a miss.

type fakeGuarantorRepo struct {
	guarantors map[string]*models.Guarantor
	nextID     int
}

func newFakeGuarantorRepo() *fakeGuarantorRepo {
	return &fakeGuarantorRepo{guarantors: make(map[string]*models.Guarantor)}
}

func (r *fakeGuarantorRepo) add(g *models.Guarantor) *models.Guarantor {
	if g.ID == "" {
		r.nextID++
		g.ID = fmt.Sprintf("guarantor-%d", r.nextID)
	}
	r.guarantors[g.ID] = g
	return g
}

func (r *fakeGuarantorRepo) Create(ctx context.Context, g *models.Guarantor) error {
	r.add(g)
	return nil
}

func (r *fakeGuarantorRepo) GetByID(ctx context.Context, id string) (*models.Guarantor, error) {
	g, ok := r.guarantors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return g, nil
}

func (r *fakeGuarantorRepo) GetByPolicyID(ctx context.Context, policyID string) ([]*models.Guarantor, error) {
	var out []*models.Guarantor
	for _, g := range r.guarantors {
		if g.PolicyID == policyID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGuarantorRepo) GetByToken(ctx context.Context, token string) (*models.Guarantor, error) {
	for _, g := range r.guarantors {
		if g.AccessToken != nil && *g.AccessToken == token {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeGuarantorRepo) Update(ctx context.Context, g *models.Guarantor) error {
	if _, ok := r.guarantors[g.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.guarantors[g.ID] = g
	return nil
}

func (r *fakeGuarantorRepo) Delete(ctx context.Context, id string) error {
	delete(r.guarantors, id)
	return nil
}

func (r *fakeGuarantorRepo) SavePerson(ctx context.Context, p *models.PersonProfile) error {
	g, ok := r.guarantors[p.GuarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.Person = p
	return nil
}

func (r *fakeGuarantorRepo) SaveCompany(ctx context.Context, c *models.CompanyProfile) error {
	g, ok := r.guarantors[c.GuarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.Company = c
	return nil
}

func (r *fakeGuarantorRepo) SavePropertyGuarantee(ctx context.Context, pg *models.PropertyGuarantee) error {
	g, ok := r.guarantors[pg.GuarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.PropertyGuarantee = pg
	return nil
}

func (r *fakeGuarantorRepo) SaveIncomeGuarantee(ctx context.Context, ig *models.IncomeGuarantee) error {
	g, ok := r.guarantors[ig.GuarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.IncomeGuarantee = ig
	return nil
}

func (r *fakeGuarantorRepo) ClearPropertyGuarantee(ctx context.Context, guarantorID string) error {
	if g, ok := r.guarantors[guarantorID]; ok {
		g.PropertyGuarantee = nil
	}
	return nil
}

func (r *fakeGuarantorRepo) ClearIncomeGuarantee(ctx context.Context, guarantorID string) error {
	if g, ok := r.guarantors[guarantorID]; ok {
		g.IncomeGuarantee = nil
	}
	return nil
}

func (r *fakeGuarantorRepo) SetGuaranteeMethod(ctx context.Context, guarantorID string, method domain.GuaranteeMethod, clearProperty, clearIncome bool) error {
	g, ok := r.guarantors[guarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if clearProperty {
		g.PropertyGuarantee = nil
		if g.Person != nil {
			g.Person.MaritalStatus = ""
			g.Person.SpouseName = ""
			g.Person.SpouseIDNo = ""
		}
	}
	if clearIncome {
		g.IncomeGuarantee = nil
	}
	g.GuaranteeMethod = method
	g.HasPropertyGuarantee = method == domain.MethodProperty
	return nil
}

func (r *fakeGuarantorRepo) SavePersonalReferences(ctx context.Context, guarantorID string, refs []models.PersonalReference) error {
	g, ok := r.guarantors[guarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.PersonalReferences = refs
	return nil
}

func (r *fakeGuarantorRepo) SaveCommercialReferences(ctx context.Context, guarantorID string, refs []models.CommercialReference) error {
	g, ok := r.guarantors[guarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.CommercialReferences = refs
	return nil
}

func (r *fakeGuarantorRepo) SaveToken(ctx context.Context, guarantorID string, token *string, expiresAt *time.Time) error {
	g, ok := r.guarantors[guarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.AccessToken = token
	g.TokenExpiresAt = expiresAt
	return nil
}

func (r *fakeGuarantorRepo) MarkAsComplete(ctx context.Context, guarantorID string, at time.Time) error {
	g, ok := r.guarantors[guarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.InformationComplete = true
	g.CompletedAt = &at
	return nil
}

func (r *fakeGuarantorRepo) MarkSubmitted(ctx context.Context, guarantorID string, at time.Time) error {
	g, ok := r.guarantors[guarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.SubmittedAt = &at
	return nil
}

func (r *fakeGuarantorRepo) SetVerificationStatus(ctx context.Context, guarantorID string, status domain.VerificationStatus, verifiedBy *string, reason *string) error {
	g, ok := r.guarantors[guarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.VerificationStatus = status
	g.VerifiedBy = verifiedBy
	g.RejectionReason = reason
	return nil
}

func (r *fakeGuarantorRepo) Archive(ctx context.Context, guarantorID string) error {
	return nil
}

func (r *fakeGuarantorRepo) Restore(ctx context.Context, guarantorID string) error {
	g, ok := r.guarantors[guarantorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.VerificationStatus = domain.VerificationPending
	g.RejectionReason = nil
	return nil
}

type fakePolicyRepo struct {
	policies map[string]*models.RentalPolicy
}

func newFakePolicyRepo(policies ...*models.RentalPolicy) *fakePolicyRepo {
	r := &fakePolicyRepo{policies: make(map[string]*models.RentalPolicy)}
	for _, p := range policies {
		r.policies[p.ID] = p
	}
	return r
}

func (r *fakePolicyRepo) Create(ctx context.Context, policy *models.RentalPolicy) error {
	r.policies[policy.ID] = policy
	return nil
}

func (r *fakePolicyRepo) GetByID(ctx context.Context, id string) (*models.RentalPolicy, error) {
	p, ok := r.policies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePolicyRepo) GetByFolio(ctx context.Context, folio string) (*models.RentalPolicy, error) {
	for _, p := range r.policies {
		if p.Folio == folio {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePolicyRepo) Update(ctx context.Context, policy *models.RentalPolicy) error {
	r.policies[policy.ID] = policy
	return nil
}

func (r *fakePolicyRepo) List(ctx context.Context, offset, limit int) ([]*models.RentalPolicy, int64, error) {
	var out []*models.RentalPolicy
	for _, p := range r.policies {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type fakeAddresses struct {
	nextID int
}

func (a *fakeAddresses) CreateAddress(ctx context.Context, input *AddressInput) (*models.Address, error) {
	a.nextID++
	return &models.Address{ID: fmt.Sprintf("addr-%d", a.nextID), Street: input.Street}, nil
}

func (a *fakeAddresses) UpdateAddress(ctx context.Context, id string, input *AddressInput) (*models.Address, error) {
	return &models.Address{ID: id, Street: input.Street}, nil
}

type fakeDocuments struct {
	required map[bool][]string
	counts   map[string]map[string]int
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{
		required: map[bool][]string{
			false: {"OFFICIAL_ID", "PROOF_OF_ADDRESS"},
			true:  {"ARTICLES_OF_INCORPORATION", "LEGAL_REP_POWER", "PROOF_OF_ADDRESS"},
		},
		counts: make(map[string]map[string]int),
	}
}

func (d *fakeDocuments) register(guarantorID, category string) {
	if d.counts[guarantorID] == nil {
		d.counts[guarantorID] = make(map[string]int)
	}
	d.counts[guarantorID][category]++
}

func (d *fakeDocuments) CountByCategory(ctx context.Context, guarantorID string) (map[string]int, error) {
	counts := d.counts[guarantorID]
	if counts == nil {
		counts = map[string]int{}
	}
	return counts, nil
}

func (d *fakeDocuments) RequiredCategories(ctx context.Context, isCompany bool) ([]string, error) {
	return d.required[isCompany], nil
}

type loggedActivity struct {
	PolicyID    string
	GuarantorID *string
	Action      string
	ActorID     string
	Detail      string
}

type fakeActivity struct {
	entries []loggedActivity
}

func (a *fakeActivity) LogActivity(policyID string, guarantorID *string, action, actorID, detail, ipAddress string) {
	a.entries = append(a.entries, loggedActivity{policyID, guarantorID, action, actorID, detail})
}

func (a *fakeActivity) actions() []string {
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

type fakeChecker struct {
	checked []string
}

func (c *fakeChecker) CheckPolicyCompletion(policyID string) {
	c.checked = append(c.checked, policyID)
}
