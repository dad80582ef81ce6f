package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdmitDateWindow(t *testing.T) {
	t.Parallel()

	// Monday.
	today := day(2024, time.June, 3)

	tests := []struct {
		name        string
		reservation time.Time
		pickup      time.Time
		wantErr     error
	}{
		{"same day", today, today, nil},
		{"edge of reservation window", day(2024, time.June, 5), day(2024, time.June, 5), nil},
		{"edge of pickup window", today, day(2024, time.June, 5), nil},
		{"reservation yesterday", day(2024, time.June, 2), today, ErrReservationDatePast},
		{"reservation three days out", day(2024, time.June, 6), day(2024, time.June, 6), ErrReservationDateTooFar},
		{"pickup on saturday", day(2024, time.June, 5), day(2024, time.June, 8), ErrPickupOnWeekend},
		{"pickup before reservation", day(2024, time.June, 5), day(2024, time.June, 4), ErrPickupBeforeReservation},
		{"pickup three days after reservation", today, day(2024, time.June, 6), ErrPickupTooFar},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := AdmitDateWindow(today, tc.reservation, tc.pickup)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestAdmitDateWindow_IgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 3, 23, 59, 0, 0, time.UTC)
	reservation := time.Date(2024, time.June, 3, 0, 1, 0, 0, time.UTC)

	require.NoError(t, AdmitDateWindow(today, reservation, reservation))
}

func TestAdmitDateWindow_WeekendBeatsOrdering(t *testing.T) {
	t.Parallel()

	// Friday reservation, Saturday pickup: the weekend rule fires even though
	// the ordering and distance rules would pass.
	today := day(2024, time.June, 7)
	err := AdmitDateWindow(today, today, day(2024, time.June, 8))
	require.ErrorIs(t, err, ErrPickupOnWeekend)
}
