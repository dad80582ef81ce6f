package domain

import "time"

type MaterialStatus string

const (
	MaterialStatusAvailable   MaterialStatus = "available"
	MaterialStatusUnavailable MaterialStatus = "unavailable"
)

// Material is a reservable/borrowable catalog item with a finite copy count.
// AvailableCopies is mutated only by the inventory ledger.
type Material struct {
	ID              string
	Title           string
	Author          string
	ISBN            string
	AccessionNumber string
	MaterialType    string
	PublicationYear int
	Description     string
	ImageURL        string
	TotalCopies     int
	AvailableCopies int
	AverageRating   float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Status is derived: a material with at least one free copy is available.
func (m Material) Status() MaterialStatus {
	if m.AvailableCopies > 0 {
		return MaterialStatusAvailable
	}
	return MaterialStatusUnavailable
}

// CheckCopyInvariant reports whether the copy counter is inside [0, TotalCopies].
// A violation indicates a ledger defect, never bad client input.
func (m Material) CheckCopyInvariant() bool {
	return m.AvailableCopies >= 0 && m.AvailableCopies <= m.TotalCopies
}
