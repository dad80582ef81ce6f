package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macaraegjami/mobile-backend/internal/clock"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

var (
	staff  = domain.Principal{UserID: "staff-1", Role: domain.RoleStaff}
	patron = domain.Principal{UserID: "user-1", Role: domain.RoleUser}
)

// monday is a fixed weekday so date-window admission passes without ceremony.
var monday = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

func newTestLedger(repo *fakeLedgerRepo) (*LedgerService, *clock.Manual) {
	clk := clock.NewManual(monday)
	return NewLedgerService(repo, clk, NopSink{}), clk
}

func reserveNow(t *testing.T, svc *LedgerService, clk *clock.Manual, materialID, userID string) domain.Hold {
	t.Helper()
	hold, err := svc.Reserve(context.Background(), ReserveInput{
		MaterialID:      materialID,
		UserID:          userID,
		ReservationDate: clk.Now(),
		PickupDate:      clk.Now(),
	})
	require.NoError(t, err)
	return hold
}

func TestReserve_DecrementsAndCreatesPendingHold(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 3, 3)
	svc, clk := newTestLedger(repo)

	hold := reserveNow(t, svc, clk, "m1", "user-1")

	assert.Equal(t, domain.HoldKindReservation, hold.Kind)
	assert.Equal(t, domain.HoldStatusPending, hold.Status)
	assert.Equal(t, 2, repo.material("m1").AvailableCopies)
}

func TestReserve_NoCopies(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 0)
	svc, clk := newTestLedger(repo)

	_, err := svc.Reserve(context.Background(), ReserveInput{
		MaterialID:      "m1",
		UserID:          "user-1",
		ReservationDate: clk.Now(),
		PickupDate:      clk.Now(),
	})
	require.ErrorIs(t, err, domain.ErrNoCopiesAvailable)
	assert.Equal(t, 0, repo.material("m1").AvailableCopies)
}

func TestReserve_DuplicateActiveHold(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 3, 3)
	svc, clk := newTestLedger(repo)

	reserveNow(t, svc, clk, "m1", "user-1")
	_, err := svc.Reserve(context.Background(), ReserveInput{
		MaterialID:      "m1",
		UserID:          "user-1",
		ReservationDate: clk.Now(),
		PickupDate:      clk.Now(),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateActiveHold)
	assert.Equal(t, 2, repo.material("m1").AvailableCopies, "failed attempt must not consume a copy")
}

func TestReserve_DateWindowRejectedBeforeAnyWrite(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 1)
	svc, clk := newTestLedger(repo)

	_, err := svc.Reserve(context.Background(), ReserveInput{
		MaterialID:      "m1",
		UserID:          "user-1",
		ReservationDate: clk.Now().AddDate(0, 0, 5),
		PickupDate:      clk.Now().AddDate(0, 0, 5),
	})
	require.ErrorIs(t, err, domain.ErrReservationDateTooFar)
	assert.Equal(t, 1, repo.material("m1").AvailableCopies)
}

func TestReserve_ConcurrentNeverOverbooks(t *testing.T) {
	const copies = 3
	const callers = 20

	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", copies, copies)
	svc, clk := newTestLedger(repo)
	_ = clk

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), ReserveInput{
				MaterialID:      "m1",
				UserID:          "user-" + string(rune('a'+n)),
				ReservationDate: monday,
				PickupDate:      monday,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrNoCopiesAvailable)
		}
	}
	assert.Equal(t, copies, succeeded)
	assert.Equal(t, 0, repo.material("m1").AvailableCopies)
}

func TestSetReservationStatus_ApproveRequiresStaff(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 1)
	svc, clk := newTestLedger(repo)
	hold := reserveNow(t, svc, clk, "m1", "user-1")

	_, err := svc.SetReservationStatus(context.Background(), SetReservationStatusInput{
		HoldID: hold.ID, NewStatus: domain.HoldStatusApproved, Actor: patron,
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	got, err := svc.SetReservationStatus(context.Background(), SetReservationStatusInput{
		HoldID: hold.ID, NewStatus: domain.HoldStatusApproved, Actor: staff,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.HoldStatusApproved, got.Status)
	assert.Equal(t, 0, repo.material("m1").AvailableCopies, "approval is copy-neutral")
}

func TestSetReservationStatus_ActiveNormalizedToApproved(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 1)
	svc, clk := newTestLedger(repo)
	hold := reserveNow(t, svc, clk, "m1", "user-1")

	got, err := svc.SetReservationStatus(context.Background(), SetReservationStatusInput{
		HoldID: hold.ID, NewStatus: domain.HoldStatusActive, Actor: staff,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.HoldStatusApproved, got.Status)
}

func TestCancelReservation_RefundsExactlyOnce(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 2, 2)
	svc, clk := newTestLedger(repo)
	hold := reserveNow(t, svc, clk, "m1", "user-1")
	require.Equal(t, 1, repo.material("m1").AvailableCopies)

	got, err := svc.CancelReservation(context.Background(), hold.ID, patron)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldStatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)
	assert.Equal(t, 2, repo.material("m1").AvailableCopies)

	// Re-cancelling must not refund a second copy.
	_, err = svc.CancelReservation(context.Background(), hold.ID, patron)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 2, repo.material("m1").AvailableCopies)
}

func TestCancelReservation_OwnerOrStaffOnly(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 1)
	svc, clk := newTestLedger(repo)
	hold := reserveNow(t, svc, clk, "m1", "user-1")

	other := domain.Principal{UserID: "user-2", Role: domain.RoleUser}
	_, err := svc.CancelReservation(context.Background(), hold.ID, other)
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Equal(t, 0, repo.material("m1").AvailableCopies, "denied cancel leaves the copy held")

	_, err = svc.CancelReservation(context.Background(), hold.ID, staff)
	require.NoError(t, err)
}

func TestConvert_CopyNeutral(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 2, 2)
	svc, clk := newTestLedger(repo)
	hold := reserveNow(t, svc, clk, "m1", "user-1")

	_, err := svc.SetReservationStatus(context.Background(), SetReservationStatusInput{
		HoldID: hold.ID, NewStatus: domain.HoldStatusApproved, Actor: staff,
	})
	require.NoError(t, err)

	borrow, err := svc.Convert(context.Background(), ConvertInput{HoldID: hold.ID, Actor: staff})
	require.NoError(t, err)

	assert.Equal(t, domain.HoldKindBorrow, borrow.Kind)
	assert.Equal(t, domain.HoldStatusBorrowed, borrow.Status)
	require.NotNil(t, borrow.DueDate)
	assert.Equal(t, clk.Now().Add(7*24*time.Hour), *borrow.DueDate)

	assert.Equal(t, domain.HoldStatusConverted, repo.hold(hold.ID).Status)
	assert.Equal(t, 1, repo.material("m1").AvailableCopies, "conversion must not move the counter")

	// Exactly one active-holding record exists afterwards.
	active, err := repo.FindActiveHold(context.Background(), "user-1", "m1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, borrow.ID, active.ID)
}

func TestConvert_PendingNotApproved(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 1)
	svc, clk := newTestLedger(repo)
	hold := reserveNow(t, svc, clk, "m1", "user-1")

	_, err := svc.Convert(context.Background(), ConvertInput{HoldID: hold.ID, Actor: staff})
	require.ErrorIs(t, err, domain.ErrNotApproved)
	assert.Equal(t, domain.HoldStatusPending, repo.hold(hold.ID).Status)
}

func TestConvert_StaffOnly(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 1)
	svc, clk := newTestLedger(repo)
	hold := reserveNow(t, svc, clk, "m1", "user-1")

	_, err := svc.Convert(context.Background(), ConvertInput{HoldID: hold.ID, Actor: patron})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestRoundTrip_ReserveApproveConvertReturn(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 5, 5)
	svc, clk := newTestLedger(repo)

	hold := reserveNow(t, svc, clk, "m1", "user-1")
	require.Equal(t, 4, repo.material("m1").AvailableCopies)

	_, err := svc.SetReservationStatus(context.Background(), SetReservationStatusInput{
		HoldID: hold.ID, NewStatus: domain.HoldStatusApproved, Actor: staff,
	})
	require.NoError(t, err)

	borrow, err := svc.Convert(context.Background(), ConvertInput{HoldID: hold.ID, Actor: staff})
	require.NoError(t, err)
	require.Equal(t, 4, repo.material("m1").AvailableCopies)

	returned, err := svc.ReturnBorrow(context.Background(), borrow.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.HoldStatusReturned, returned.Status)
	assert.False(t, returned.Overdue)
	assert.True(t, returned.FineAmount.IsZero())
	assert.Equal(t, 5, repo.material("m1").AvailableCopies, "counter must round-trip to its start value")
}

func TestReturnBorrow_OverdueFine(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 1)
	svc, clk := newTestLedger(repo)

	borrow, err := svc.CreateDirectBorrow(context.Background(), DirectBorrowInput{
		MaterialID: "m1", UserID: "user-1", Actor: staff,
	})
	require.NoError(t, err)

	// Nine days on a seven-day period: two full days late.
	clk.Advance(9 * 24 * time.Hour)

	returned, err := svc.ReturnBorrow(context.Background(), borrow.ID)
	require.NoError(t, err)
	assert.True(t, returned.Overdue)
	assert.True(t, returned.FineAmount.Equal(decimal.NewFromInt(2)), "got %s", returned.FineAmount)
	assert.Equal(t, 1, repo.material("m1").AvailableCopies)
}

func TestReturnBorrow_NotBorrowed(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 1)
	svc, clk := newTestLedger(repo)

	borrow, err := svc.CreateDirectBorrow(context.Background(), DirectBorrowInput{
		MaterialID: "m1", UserID: "user-1", Actor: staff,
	})
	require.NoError(t, err)
	_ = clk

	_, err = svc.ReturnBorrow(context.Background(), borrow.ID)
	require.NoError(t, err)

	// A second return must neither succeed nor refund again.
	_, err = svc.ReturnBorrow(context.Background(), borrow.ID)
	require.ErrorIs(t, err, domain.ErrNotBorrowed)
	assert.Equal(t, 1, repo.material("m1").AvailableCopies)
}

func TestCancelBorrow_Refunds(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 1)
	svc, _ := newTestLedger(repo)

	borrow, err := svc.CreateDirectBorrow(context.Background(), DirectBorrowInput{
		MaterialID: "m1", UserID: "user-1", Actor: staff,
	})
	require.NoError(t, err)
	require.Equal(t, 0, repo.material("m1").AvailableCopies)

	got, err := svc.CancelBorrow(context.Background(), borrow.ID, patron)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldStatusCancelled, got.Status)
	assert.Equal(t, 1, repo.material("m1").AvailableCopies)
}

func TestCreateDirectBorrow_Guards(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 1, 1)
	svc, _ := newTestLedger(repo)

	_, err := svc.CreateDirectBorrow(context.Background(), DirectBorrowInput{
		MaterialID: "m1", UserID: "user-1", Actor: patron,
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = svc.CreateDirectBorrow(context.Background(), DirectBorrowInput{
		MaterialID: "m1", UserID: "user-1", Actor: staff,
	})
	require.NoError(t, err)

	_, err = svc.CreateDirectBorrow(context.Background(), DirectBorrowInput{
		MaterialID: "m1", UserID: "user-1", Actor: staff,
	})
	require.ErrorIs(t, err, domain.ErrDuplicateActiveHold)
}

func TestSweepOverdue_FlagsWithoutTouchingCopies(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 2, 2)
	svc, clk := newTestLedger(repo)

	sink := &recordSink{}
	svc.events = sink

	borrow, err := svc.CreateDirectBorrow(context.Background(), DirectBorrowInput{
		MaterialID: "m1", UserID: "user-1", Actor: staff,
	})
	require.NoError(t, err)

	// Not yet due.
	n, err := svc.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	clk.Advance(8 * 24 * time.Hour)

	n, err = svc.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, repo.hold(borrow.ID).Overdue)
	assert.Equal(t, domain.HoldStatusBorrowed, repo.hold(borrow.ID).Status, "overdue is a flag, not a status")
	assert.Equal(t, 1, repo.material("m1").AvailableCopies)

	// A second sweep finds nothing new.
	n, err = svc.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApplyDelta_InvariantViolationAborts(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.addMaterial("m1", 2, 2)
	svc, clk := newTestLedger(repo)
	hold := reserveNow(t, svc, clk, "m1", "user-1")

	// Corrupt the counter readback so the refund appears to exceed the total.
	repo.deltaHook = func(_, total int) (int, int) { return total + 1, total }

	_, err := svc.CancelReservation(context.Background(), hold.ID, patron)
	require.ErrorIs(t, err, domain.ErrInventoryInvariant)

	// The transaction rolled back: the hold still holds its copy.
	assert.Equal(t, domain.HoldStatusPending, repo.hold(hold.ID).Status)
	assert.Equal(t, 1, repo.material("m1").AvailableCopies)
}
