package domain

import "errors"

var (
	ErrMaterialNotFound     = errors.New("material not found")
	ErrNoCopiesAvailable    = errors.New("no copies available")
	ErrDuplicateActiveHold  = errors.New("user already has an active hold for this material")
	ErrHoldNotFound         = errors.New("hold not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrNotBorrowed          = errors.New("hold is not in borrowed status")
	ErrNotApproved          = errors.New("reservation is not approved")
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrAttendanceNotFound   = errors.New("attendance record not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrBusy is surfaced when per-material lock contention outlasts the
	// operation deadline. Callers may retry; no state was changed.
	ErrBusy = errors.New("material is busy, retry")

	// ErrInventoryInvariant marks a copy counter outside [0, total_copies] or a
	// refund of a non-holding record. It indicates a ledger defect and is never
	// auto-corrected.
	ErrInventoryInvariant = errors.New("inventory invariant violated")
)

// Date-window admission failures. Each rule rejects with its own sentinel so
// callers can produce an actionable message.
var (
	ErrReservationDatePast     = errors.New("reservation date cannot be in the past")
	ErrReservationDateTooFar   = errors.New("reservation date must be within 3 days from today")
	ErrPickupOnWeekend         = errors.New("pickup date must be on a weekday")
	ErrPickupBeforeReservation = errors.New("pickup date cannot be before reservation date")
	ErrPickupTooFar            = errors.New("pickup date must be within 3 days of reservation date")
)

// IsDateWindowViolation reports whether err is one of the admission-policy
// rejections.
func IsDateWindowViolation(err error) bool {
	switch {
	case errors.Is(err, ErrReservationDatePast),
		errors.Is(err, ErrReservationDateTooFar),
		errors.Is(err, ErrPickupOnWeekend),
		errors.Is(err, ErrPickupBeforeReservation),
		errors.Is(err, ErrPickupTooFar):
		return true
	}
	return false
}
