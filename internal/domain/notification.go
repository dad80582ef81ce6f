package domain

import "time"

// Notification is a user-facing message about a hold lifecycle event.
// Delivery is fire-and-forget: losing one never affects inventory state.
type Notification struct {
	ID        string
	UserID    string
	Kind      string // e.g. "reservation_approved"
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
