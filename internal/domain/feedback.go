package domain

import "time"

type FeedbackType string

const (
	FeedbackTypeLibrary FeedbackType = "library"
	FeedbackTypeMuseum  FeedbackType = "museum"
)

// Feedback is a visitor rating of the library or museum floor.
type Feedback struct {
	ID        string
	Name      string // "Anonymous" when not supplied
	Rating    int    // 1..5
	Comment   string
	Type      FeedbackType
	CreatedAt time.Time
}
