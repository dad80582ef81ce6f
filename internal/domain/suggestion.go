package domain

import "time"

// Suggestion is a patron request for a title the library does not stock.
type Suggestion struct {
	ID        string
	BookTitle string
	Author    string
	Edition   string
	Reason    string
	CreatedAt time.Time
}
