package services

import (
	"context"
	"log"
	"time"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/adapters/persistence/repositories"
)

// ActivityService writes the policy timeline. LogActivity runs in the
// background and never fails the calling operation.
type ActivityService struct {
	activityRepo repositories.ActivityLogRepository
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo repositories.ActivityLogRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// LogActivity records a timeline event asynchronously
func (s *ActivityService) LogActivity(policyID string, guarantorID *string, action, actorID, detail, ipAddress string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		entry := &models.ActivityLog{
			PolicyID:    policyID,
			GuarantorID: guarantorID,
			Action:      action,
			ActorID:     actorID,
			Detail:      detail,
			IPAddress:   ipAddress,
		}
		if err := s.activityRepo.Create(ctx, entry); err != nil {
			log.Printf("❌ Activity log error (%s on %s): %v", action, policyID, err)
		}
	}()
}

// GetPolicyTimeline lists recent events for a policy
func (s *ActivityService) GetPolicyTimeline(ctx context.Context, policyID string, limit int) ([]*models.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.activityRepo.GetByPolicyID(ctx, policyID, limit)
}

// GetGuarantorTimeline lists recent events for a guarantor
func (s *ActivityService) GetGuarantorTimeline(ctx context.Context, guarantorID string, limit int) ([]*models.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.activityRepo.GetByGuarantorID(ctx, guarantorID, limit)
}
