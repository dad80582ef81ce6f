package app

import (
	"context"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

// InboxService exposes the read side of the event sink: a user's notifications
// and the staff activity log.
type InboxService struct {
	notifications NotificationRepository
	activities    ActivityRepository
}

func NewInboxService(n NotificationRepository, a ActivityRepository) *InboxService {
	return &InboxService{notifications: n, activities: a}
}

func (s *InboxService) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	if userID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.notifications.ListNotificationsByUser(ctx, userID)
}

func (s *InboxService) MarkRead(ctx context.Context, id, userID string) error {
	if id == "" || userID == "" {
		return domain.ErrInvalidID
	}
	return s.notifications.MarkNotificationRead(ctx, id, userID)
}

func (s *InboxService) ListActivity(ctx context.Context, actor domain.Principal, limit int) ([]domain.Activity, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrNotAuthorized
	}
	if limit <= 0 {
		limit = 200
	}
	return s.activities.ListActivities(ctx, limit)
}
