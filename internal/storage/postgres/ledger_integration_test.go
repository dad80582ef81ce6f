package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/macaraegjami/mobile-backend/internal/app"
	"github.com/macaraegjami/mobile-backend/internal/clock"
	"github.com/macaraegjami/mobile-backend/internal/domain"
	"github.com/macaraegjami/mobile-backend/internal/testutil"
)

// Drives the ledger service against real row locks: concurrent reservations on
// a finite copy count must admit exactly available_copies winners.
func TestLedgerService_ConcurrentReserves(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	const copies = 2
	const callers = 8

	materialID := testutil.InsertMaterial(t, ctx, pool, "Contended Title", copies, copies)
	userIDs := make([]string, callers)
	for i := range userIDs {
		userIDs[i] = testutil.InsertUser(t, ctx, pool, domain.RoleUser)
	}

	repo := NewHoldRepository(pool)
	svc := app.NewLedgerService(repo, clock.NewSystem(), app.NopSink{},
		app.WithOperationTimeout(10*time.Second))

	today := time.Now().UTC()
	pickup := today
	// Push pickup off a weekend if needed.
	for wd := pickup.Weekday(); wd == time.Saturday || wd == time.Sunday; wd = pickup.Weekday() {
		pickup = pickup.AddDate(0, 0, 1)
	}
	reservation := today
	if pickup.After(today) {
		reservation = pickup
	}

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := svc.Reserve(ctx, app.ReserveInput{
				MaterialID:      materialID,
				UserID:          userID,
				ReservationDate: reservation,
				PickupDate:      pickup,
			})
			errs <- err
		}(userIDs[i])
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrNoCopiesAvailable):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != copies {
		t.Fatalf("expected %d successful reservations, got %d", copies, succeeded)
	}

	var available int
	if err := pool.QueryRow(ctx, `SELECT available_copies FROM materials WHERE id = $1`, materialID).Scan(&available); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if available != 0 {
		t.Fatalf("expected counter to reach 0, got %d", available)
	}
}
