package domain

import "time"

// Activity is an append-only audit record of a mutating operation.
type Activity struct {
	ID        string
	UserID    string
	Action    string // e.g. "reserve_add", "reserve_status_approved"
	Details   string
	CreatedAt time.Time
}
