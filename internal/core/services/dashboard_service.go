package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// Staff Statistics
	TotalUsers  int64 `json:"total_users"`
	TotalAdmins int64 `json:"total_admins"`
	TotalAgents int64 `json:"total_agents"`

	// Policy Statistics
	TotalPolicies     int64   `json:"total_policies"`
	OpenPolicies      int64   `json:"open_policies"`
	CompletedPolicies int64   `json:"completed_policies"`
	TotalMonthlyRent  float64 `json:"total_monthly_rent"`

	// Guarantor Statistics
	TotalGuarantors     int64 `json:"total_guarantors"`
	PendingGuarantors   int64 `json:"pending_guarantors"`
	InReviewGuarantors  int64 `json:"in_review_guarantors"`
	ApprovedGuarantors  int64 `json:"approved_guarantors"`
	RejectedGuarantors  int64 `json:"rejected_guarantors"`
	PropertyMethodCount int64 `json:"property_method_count"`
	IncomeMethodCount   int64 `json:"income_method_count"`

	// Monthly Statistics
	PoliciesThisMonth   int64 `json:"policies_this_month"`
	GuarantorsThisMonth int64 `json:"guarantors_this_month"`

	// Token Health
	ExpiringTokens []ExpiringTokenInfo `json:"expiring_tokens"`

	// Recent Submissions
	RecentSubmissions []GuarantorSummary `json:"recent_submissions"`
}

// GuarantorSummary represents guarantor summary
type GuarantorSummary struct {
	ID          string     `json:"id"`
	PolicyFolio string     `json:"policy_folio"`
	Role        string     `json:"role"`
	IsCompany   bool       `json:"is_company"`
	Method      string     `json:"method"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// ExpiringTokenInfo flags guarantor access tokens close to expiry so
// staff can refresh before the link goes dark.
type ExpiringTokenInfo struct {
	GuarantorID string    `json:"guarantor_id"`
	PolicyFolio string    `json:"policy_folio"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	// Staff counts by role
	s.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL").Count(&data.TotalUsers)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "ADMIN").Count(&data.TotalAdmins)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "AGENT").Count(&data.TotalAgents)

	// Policy counts
	s.db.WithContext(ctx).Table("rental_policies").Where("deleted_at IS NULL").Count(&data.TotalPolicies)
	s.db.WithContext(ctx).Table("rental_policies").
		Where("status = ? AND deleted_at IS NULL", "OPEN").
		Count(&data.OpenPolicies)
	s.db.WithContext(ctx).Table("rental_policies").
		Where("status = ? AND deleted_at IS NULL", "GUARANTORS_COMPLETE").
		Count(&data.CompletedPolicies)
	s.db.WithContext(ctx).Table("rental_policies").
		Where("deleted_at IS NULL").
		Select("COALESCE(SUM(monthly_rent), 0)").
		Scan(&data.TotalMonthlyRent)

	// Guarantor counts by verification status
	s.db.WithContext(ctx).Table("guarantors").Where("deleted_at IS NULL").Count(&data.TotalGuarantors)
	s.db.WithContext(ctx).Table("guarantors").
		Where("verification_status = ? AND deleted_at IS NULL", "PENDING").
		Count(&data.PendingGuarantors)
	s.db.WithContext(ctx).Table("guarantors").
		Where("verification_status = ? AND deleted_at IS NULL", "IN_REVIEW").
		Count(&data.InReviewGuarantors)
	s.db.WithContext(ctx).Table("guarantors").
		Where("verification_status = ? AND deleted_at IS NULL", "APPROVED").
		Count(&data.ApprovedGuarantors)
	s.db.WithContext(ctx).Table("guarantors").
		Where("verification_status = ? AND deleted_at IS NULL", "REJECTED").
		Count(&data.RejectedGuarantors)

	// Guarantee method split. The legacy flag forces the property
	// method, matching the precedence the engine applies.
	s.db.WithContext(ctx).Table("guarantors").
		Where("(has_property_guarantee = ? OR guarantee_method = ?) AND deleted_at IS NULL", true, "PROPERTY").
		Count(&data.PropertyMethodCount)
	s.db.WithContext(ctx).Table("guarantors").
		Where("has_property_guarantee = ? AND guarantee_method = ? AND deleted_at IS NULL", false, "INCOME").
		Count(&data.IncomeMethodCount)

	// This month statistics
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("rental_policies").
		Where("created_at >= ? AND deleted_at IS NULL", startOfMonth).
		Count(&data.PoliciesThisMonth)
	s.db.WithContext(ctx).Table("guarantors").
		Where("created_at >= ? AND deleted_at IS NULL", startOfMonth).
		Count(&data.GuarantorsThisMonth)

	// Tokens expiring within 48 hours on guarantors not yet submitted
	var expiring []struct {
		GuarantorID string
		PolicyFolio string
		Email       string
		ExpiresAt   time.Time
	}
	s.db.WithContext(ctx).Table("guarantors").
		Select("guarantors.id as guarantor_id, rental_policies.folio as policy_folio, guarantors.email, guarantors.token_expires_at as expires_at").
		Joins("JOIN rental_policies ON guarantors.policy_id = rental_policies.id").
		Where("guarantors.access_token IS NOT NULL AND guarantors.submitted_at IS NULL AND guarantors.token_expires_at BETWEEN ? AND ? AND guarantors.deleted_at IS NULL",
			time.Now(), time.Now().Add(48*time.Hour)).
		Order("guarantors.token_expires_at ASC").
		Limit(10).
		Scan(&expiring)

	data.ExpiringTokens = make([]ExpiringTokenInfo, len(expiring))
	for i, e := range expiring {
		data.ExpiringTokens[i] = ExpiringTokenInfo{
			GuarantorID: e.GuarantorID,
			PolicyFolio: e.PolicyFolio,
			Email:       e.Email,
			ExpiresAt:   e.ExpiresAt,
		}
	}

	data.RecentSubmissions = s.recentSubmissions(ctx, "", 10)
	return data, nil
}

// ============================================================
// Agent Dashboard
// ============================================================

// AgentDashboardData represents agent dashboard data
type AgentDashboardData struct {
	// My Statistics
	MyPolicies          int64 `json:"my_policies"`
	MyOpenPolicies      int64 `json:"my_open_policies"`
	MyGuarantors        int64 `json:"my_guarantors"`
	AwaitingSubmission  int64 `json:"awaiting_submission"`
	AwaitingVerdict     int64 `json:"awaiting_verdict"`
	RequiresChangesList int64 `json:"requires_changes"`

	// Work Queue
	RecentSubmissions []GuarantorSummary `json:"recent_submissions"`
}

// GetAgentDashboard returns the dashboard scoped to an agent's policies
func (s *DashboardService) GetAgentDashboard(ctx context.Context, agentID string) (*AgentDashboardData, error) {
	data := &AgentDashboardData{}

	s.db.WithContext(ctx).Table("rental_policies").
		Where("created_by = ? AND deleted_at IS NULL", agentID).
		Count(&data.MyPolicies)
	s.db.WithContext(ctx).Table("rental_policies").
		Where("created_by = ? AND status = ? AND deleted_at IS NULL", agentID, "OPEN").
		Count(&data.MyOpenPolicies)

	s.db.WithContext(ctx).Table("guarantors").
		Joins("JOIN rental_policies ON guarantors.policy_id = rental_policies.id").
		Where("rental_policies.created_by = ? AND guarantors.deleted_at IS NULL", agentID).
		Count(&data.MyGuarantors)
	s.db.WithContext(ctx).Table("guarantors").
		Joins("JOIN rental_policies ON guarantors.policy_id = rental_policies.id").
		Where("rental_policies.created_by = ? AND guarantors.submitted_at IS NULL AND guarantors.deleted_at IS NULL", agentID).
		Count(&data.AwaitingSubmission)
	s.db.WithContext(ctx).Table("guarantors").
		Joins("JOIN rental_policies ON guarantors.policy_id = rental_policies.id").
		Where("rental_policies.created_by = ? AND guarantors.verification_status = ? AND guarantors.deleted_at IS NULL", agentID, "IN_REVIEW").
		Count(&data.AwaitingVerdict)
	s.db.WithContext(ctx).Table("guarantors").
		Joins("JOIN rental_policies ON guarantors.policy_id = rental_policies.id").
		Where("rental_policies.created_by = ? AND guarantors.verification_status = ? AND guarantors.deleted_at IS NULL", agentID, "REQUIRES_CHANGES").
		Count(&data.RequiresChangesList)

	data.RecentSubmissions = s.recentSubmissions(ctx, agentID, 10)
	return data, nil
}

// recentSubmissions lists the latest submitted guarantors, optionally
// scoped to one agent's policies.
func (s *DashboardService) recentSubmissions(ctx context.Context, agentID string, limit int) []GuarantorSummary {
	var rows []struct {
		ID          string
		PolicyFolio string
		Role        string
		IsCompany   bool
		Method      string
		Status      string
		SubmittedAt *time.Time
	}

	q := s.db.WithContext(ctx).Table("guarantors").
		Select(`
			guarantors.id,
			rental_policies.folio as policy_folio,
			guarantors.role,
			guarantors.is_company,
			CASE WHEN guarantors.has_property_guarantee = 1 OR guarantors.guarantee_method = 'PROPERTY' THEN 'PROPERTY' ELSE guarantors.guarantee_method END as method,
			guarantors.verification_status as status,
			guarantors.submitted_at
		`).
		Joins("JOIN rental_policies ON guarantors.policy_id = rental_policies.id").
		Where("guarantors.submitted_at IS NOT NULL AND guarantors.deleted_at IS NULL")
	if agentID != "" {
		q = q.Where("rental_policies.created_by = ?", agentID)
	}
	q.Order("guarantors.submitted_at DESC").Limit(limit).Scan(&rows)

	out := make([]GuarantorSummary, len(rows))
	for i, r := range rows {
		out[i] = GuarantorSummary{
			ID:          r.ID,
			PolicyFolio: r.PolicyFolio,
			Role:        r.Role,
			IsCompany:   r.IsCompany,
			Method:      r.Method,
			Status:      r.Status,
			SubmittedAt: r.SubmittedAt,
		}
	}
	return out
}
