package domain

import "time"

// reservationWindowDays and pickupWindowDays are inclusive 3-day windows:
// today, +1, +2. The original system mixed +2 and +3 day arithmetic for what
// it described as "within 3 days"; the inclusive reading is used throughout.
const (
	reservationWindowDays = 2
	pickupWindowDays      = 2
)

// AdmitDateWindow validates a (reservationDate, pickupDate) pair against today.
// All three arguments are compared at day granularity; callers normalize
// timezones before calling, this function never converts.
//
// Rules, each with its own rejection:
//  1. today <= reservationDate <= today+2
//  2. pickupDate falls on Mon..Fri
//  3. pickupDate >= reservationDate
//  4. pickupDate <= reservationDate+2
func AdmitDateWindow(today, reservationDate, pickupDate time.Time) error {
	today = dateOnly(today)
	reservation := dateOnly(reservationDate)
	pickup := dateOnly(pickupDate)

	if reservation.Before(today) {
		return ErrReservationDatePast
	}
	if reservation.After(today.AddDate(0, 0, reservationWindowDays)) {
		return ErrReservationDateTooFar
	}
	if wd := pickup.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return ErrPickupOnWeekend
	}
	if pickup.Before(reservation) {
		return ErrPickupBeforeReservation
	}
	if pickup.After(reservation.AddDate(0, 0, pickupWindowDays)) {
		return ErrPickupTooFar
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
