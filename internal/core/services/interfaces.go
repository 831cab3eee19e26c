package services

import (
	"context"

	"rentaguard/internal/adapters/persistence/models"
)

// AddressInput carries address details for upserts
type AddressInput struct {
	Street       string `json:"street"`
	ExteriorNo   string `json:"exterior_no,omitempty"`
	InteriorNo   string `json:"interior_no,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Country      string `json:"country,omitempty"`
}

// AddressUpserter owns address records. The guarantor engine stores the
// returned id only, never the raw address.
type AddressUpserter interface {
	CreateAddress(ctx context.Context, input *AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, id string, input *AddressInput) (*models.Address, error)
}

// DocumentCounter answers the per-category document counts used by the
// submission gate.
type DocumentCounter interface {
	CountByCategory(ctx context.Context, guarantorID string) (map[string]int, error)
	RequiredCategories(ctx context.Context, isCompany bool) ([]string, error)
}

// ActivityRecorder records policy timeline events. Calls are
// fire-and-forget: a failed log never rolls back the operation.
type ActivityRecorder interface {
	LogActivity(policyID string, guarantorID *string, action, actorID, detail, ipAddress string)
}

// PolicyCompletionChecker re-evaluates the whole policy after one
// guarantor submits. Fire-and-forget.
type PolicyCompletionChecker interface {
	CheckPolicyCompletion(policyID string)
}
