package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type HoldKind string

const (
	HoldKindReservation HoldKind = "reservation"
	HoldKindBorrow      HoldKind = "borrow"
)

type HoldStatus string

// Reservation statuses.
const (
	HoldStatusPending   HoldStatus = "pending"
	HoldStatusApproved  HoldStatus = "approved"
	HoldStatusActive    HoldStatus = "active" // legacy alias of approved, still accepted on input
	HoldStatusRejected  HoldStatus = "rejected"
	HoldStatusConverted HoldStatus = "converted"
)

// Borrow statuses. Cancelled is shared by both kinds.
const (
	HoldStatusBorrowed  HoldStatus = "borrowed"
	HoldStatusReturned  HoldStatus = "returned"
	HoldStatusCancelled HoldStatus = "cancelled"
)

// Hold is a claim on one copy of a material: either a reservation or a borrow,
// never both. Terminal holds are kept for audit and rating eligibility.
type Hold struct {
	ID              string
	MaterialID      string
	UserID          string
	Kind            HoldKind
	Status          HoldStatus
	ReservationDate *time.Time
	PickupDate      *time.Time
	BorrowDate      *time.Time
	DueDate         *time.Time
	ReturnedAt      *time.Time
	CancelledAt     *time.Time
	Overdue         bool
	FineAmount      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActiveHolding reports whether this hold currently consumes one copy.
func (h Hold) IsActiveHolding() bool {
	switch h.Status {
	case HoldStatusPending, HoldStatusApproved, HoldStatusActive, HoldStatusBorrowed:
		return true
	}
	return false
}

// IsTerminal reports whether the hold can no longer transition.
func (h Hold) IsTerminal() bool {
	switch h.Status {
	case HoldStatusRejected, HoldStatusConverted, HoldStatusReturned, HoldStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo validates a reservation status change. The copy-count effect
// of each legal transition is applied by the ledger, not here.
func (h Hold) CanTransitionTo(next HoldStatus) bool {
	if h.Kind != HoldKindReservation {
		return false
	}
	switch h.Status {
	case HoldStatusPending:
		return next == HoldStatusApproved || next == HoldStatusRejected || next == HoldStatusCancelled
	case HoldStatusApproved, HoldStatusActive:
		return next == HoldStatusBorrowed || next == HoldStatusCancelled
	}
	// Terminal statuses allow nothing; re-cancelling a cancelled hold must not
	// refund a second copy.
	return false
}

// FineRatePerDay is charged per full day a borrow is overdue at return time.
var FineRatePerDay = decimal.NewFromInt(1)

// Fine computes the fine owed if the borrow were returned at the given instant.
func (h Hold) Fine(at time.Time) decimal.Decimal {
	if h.Kind != HoldKindBorrow || h.DueDate == nil || !at.After(*h.DueDate) {
		return decimal.Zero
	}
	days := int64(at.Sub(*h.DueDate).Hours() / 24)
	if days <= 0 {
		return decimal.Zero
	}
	return FineRatePerDay.Mul(decimal.NewFromInt(days))
}
