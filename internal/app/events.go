package app

import (
	"context"
	"log"
	"time"

	"github.com/macaraegjami/mobile-backend/internal/clock"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

// EventSink receives side effects that must never block or roll back an
// inventory transaction: user notifications and audit records. Implementations
// absorb their own failures.
type EventSink interface {
	Notify(userID, kind, title, message string)
	Record(userID, action, details string)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n domain.Notification) error
	ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
}

type ActivityRepository interface {
	CreateActivity(ctx context.Context, a domain.Activity) error
	ListActivities(ctx context.Context, limit int) ([]domain.Activity, error)
}

const sinkWriteTimeout = 5 * time.Second

// AsyncSink persists notifications and activity records on a best-effort
// goroutine per event. Failures are logged and dropped.
type AsyncSink struct {
	notifications NotificationRepository
	activities    ActivityRepository
	clock         clock.Clock
	logger        *log.Logger
}

func NewAsyncSink(n NotificationRepository, a ActivityRepository, clk clock.Clock, logger *log.Logger) *AsyncSink {
	if logger == nil {
		logger = log.Default()
	}
	return &AsyncSink{notifications: n, activities: a, clock: clk, logger: logger}
}

func (s *AsyncSink) Notify(userID, kind, title, message string) {
	n := domain.Notification{
		ID:        newID(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: s.clock.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sinkWriteTimeout)
		defer cancel()
		if err := s.notifications.CreateNotification(ctx, n); err != nil {
			s.logger.Printf("WARN: drop notification kind=%s user=%s: %v", kind, userID, err)
		}
	}()
}

func (s *AsyncSink) Record(userID, action, details string) {
	a := domain.Activity{
		ID:        newID(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: s.clock.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sinkWriteTimeout)
		defer cancel()
		if err := s.activities.CreateActivity(ctx, a); err != nil {
			s.logger.Printf("WARN: drop activity action=%s user=%s: %v", action, userID, err)
		}
	}()
}

// NopSink discards all events. Used in tests and as a safe default.
type NopSink struct{}

func (NopSink) Notify(string, string, string, string) {}
func (NopSink) Record(string, string, string)         {}
