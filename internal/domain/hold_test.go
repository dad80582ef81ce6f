package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from HoldStatus
		to   HoldStatus
		ok   bool
	}{
		{HoldStatusPending, HoldStatusApproved, true},
		{HoldStatusPending, HoldStatusRejected, true},
		{HoldStatusPending, HoldStatusCancelled, true},
		{HoldStatusPending, HoldStatusBorrowed, false},
		{HoldStatusApproved, HoldStatusBorrowed, true},
		{HoldStatusApproved, HoldStatusCancelled, true},
		{HoldStatusApproved, HoldStatusRejected, false},
		{HoldStatusActive, HoldStatusBorrowed, true},
		{HoldStatusCancelled, HoldStatusCancelled, false},
		{HoldStatusCancelled, HoldStatusApproved, false},
		{HoldStatusRejected, HoldStatusApproved, false},
		{HoldStatusConverted, HoldStatusCancelled, false},
	}

	for _, tc := range tests {
		h := Hold{Kind: HoldKindReservation, Status: tc.from}
		assert.Equal(t, tc.ok, h.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionTo_BorrowKindNeverTransitions(t *testing.T) {
	t.Parallel()

	h := Hold{Kind: HoldKindBorrow, Status: HoldStatusPending}
	assert.False(t, h.CanTransitionTo(HoldStatusApproved))
}

func TestIsActiveHolding(t *testing.T) {
	t.Parallel()

	holding := []HoldStatus{HoldStatusPending, HoldStatusApproved, HoldStatusActive, HoldStatusBorrowed}
	for _, st := range holding {
		assert.True(t, Hold{Status: st}.IsActiveHolding(), string(st))
	}

	released := []HoldStatus{HoldStatusRejected, HoldStatusCancelled, HoldStatusConverted, HoldStatusReturned}
	for _, st := range released {
		assert.False(t, Hold{Status: st}.IsActiveHolding(), string(st))
	}
}

func TestFine(t *testing.T) {
	t.Parallel()

	due := day(2024, time.June, 10)
	borrow := Hold{Kind: HoldKindBorrow, DueDate: &due}

	t.Run("on time", func(t *testing.T) {
		require.True(t, borrow.Fine(due).IsZero())
		require.True(t, borrow.Fine(due.Add(-time.Hour)).IsZero())
	})

	t.Run("under a full day late", func(t *testing.T) {
		require.True(t, borrow.Fine(due.Add(23*time.Hour)).IsZero())
	})

	t.Run("three days late", func(t *testing.T) {
		got := borrow.Fine(due.Add(72 * time.Hour))
		require.True(t, got.Equal(decimal.NewFromInt(3)), "got %s", got)
	})

	t.Run("no due date", func(t *testing.T) {
		h := Hold{Kind: HoldKindBorrow}
		require.True(t, h.Fine(due).IsZero())
	})

	t.Run("reservation never fined", func(t *testing.T) {
		h := Hold{Kind: HoldKindReservation, DueDate: &due}
		require.True(t, h.Fine(due.Add(72*time.Hour)).IsZero())
	})
}

func TestMaterialStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MaterialStatusAvailable, Material{TotalCopies: 3, AvailableCopies: 1}.Status())
	assert.Equal(t, MaterialStatusUnavailable, Material{TotalCopies: 3, AvailableCopies: 0}.Status())
	assert.True(t, Material{TotalCopies: 3, AvailableCopies: 3}.CheckCopyInvariant())
	assert.False(t, Material{TotalCopies: 3, AvailableCopies: 4}.CheckCopyInvariant())
	assert.False(t, Material{TotalCopies: 3, AvailableCopies: -1}.CheckCopyInvariant())
}
