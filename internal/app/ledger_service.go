package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/macaraegjami/mobile-backend/internal/clock"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

// LedgerRepository is the storage contract for the inventory ledger. Every
// mutating ledger operation runs inside WithTx; the *ForUpdate reads take an
// exclusive row lock so the read-validate-write sequence on one material
// serializes across concurrent callers.
type LedgerRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetMaterialForUpdate(ctx context.Context, materialID string) (domain.Material, error)
	// ApplyCopyDelta adjusts available_copies and returns the updated counters.
	ApplyCopyDelta(ctx context.Context, materialID string, delta int) (available, total int, err error)
	FindActiveHold(ctx context.Context, userID, materialID string) (*domain.Hold, error)
	GetHoldForUpdate(ctx context.Context, holdID string) (domain.Hold, error)
	CreateHold(ctx context.Context, hold domain.Hold) error
	UpdateHold(ctx context.Context, hold domain.Hold) error

	GetHold(ctx context.Context, holdID string) (domain.Hold, error)
	ListHoldsByUser(ctx context.Context, userID string) ([]domain.Hold, error)
	ListHolds(ctx context.Context, kind domain.HoldKind, status domain.HoldStatus) ([]domain.Hold, error)
	ListDueBorrows(ctx context.Context, asOf time.Time) ([]domain.Hold, error)
	MarkOverdue(ctx context.Context, holdIDs []string) error
}

// LedgerService is the only writer of available_copies. Each operation is one
// atomic unit: the copy-count delta and the paired hold write commit together
// or not at all.
type LedgerService struct {
	repo      LedgerRepository
	clock     clock.Clock
	events    EventSink
	opTimeout time.Duration
	borrowFor time.Duration
}

const (
	defaultOpTimeout    = 3 * time.Second
	defaultBorrowPeriod = 7 * 24 * time.Hour
)

func NewLedgerService(repo LedgerRepository, clk clock.Clock, events EventSink, opts ...LedgerOption) *LedgerService {
	svc := &LedgerService{
		repo:      repo,
		clock:     clk,
		events:    events,
		opTimeout: defaultOpTimeout,
		borrowFor: defaultBorrowPeriod,
	}
	if svc.events == nil {
		svc.events = NopSink{}
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type LedgerOption func(*LedgerService)

// WithOperationTimeout bounds how long one ledger operation may wait on the
// per-material lock before failing with ErrBusy.
func WithOperationTimeout(d time.Duration) LedgerOption {
	return func(s *LedgerService) {
		if d > 0 {
			s.opTimeout = d
		}
	}
}

// WithBorrowPeriod overrides the due-date offset used by conversion.
func WithBorrowPeriod(d time.Duration) LedgerOption {
	return func(s *LedgerService) {
		if d > 0 {
			s.borrowFor = d
		}
	}
}

// inTx runs fn in a transaction bounded by the operation timeout. Lock-wait
// exhaustion surfaces as ErrBusy rather than hanging the caller.
func (s *LedgerService) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	err := s.repo.WithTx(opCtx, fn)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return domain.ErrBusy
	}
	return err
}

// applyDelta adjusts the counter and enforces 0 <= available <= total. The
// precondition checks should make a violation impossible; tripping this means
// a ledger defect, so the transaction is aborted and the error is not
// client-facing.
func (s *LedgerService) applyDelta(ctx context.Context, materialID string, delta int) error {
	available, total, err := s.repo.ApplyCopyDelta(ctx, materialID, delta)
	if err != nil {
		return err
	}
	if available < 0 || available > total {
		return fmt.Errorf("%w: material %s available=%d total=%d after delta %+d",
			domain.ErrInventoryInvariant, materialID, available, total, delta)
	}
	return nil
}

type ReserveInput struct {
	MaterialID      string
	UserID          string
	ReservationDate time.Time
	PickupDate      time.Time
}

// Reserve admits the date window, then atomically decrements available_copies
// and creates a pending reservation hold.
func (s *LedgerService) Reserve(ctx context.Context, in ReserveInput) (domain.Hold, error) {
	if in.MaterialID == "" || in.UserID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	if err := domain.AdmitDateWindow(now, in.ReservationDate, in.PickupDate); err != nil {
		return domain.Hold{}, err
	}

	reservation := in.ReservationDate
	pickup := in.PickupDate

	var result domain.Hold
	err := s.inTx(ctx, func(txCtx context.Context) error {
		material, err := s.repo.GetMaterialForUpdate(txCtx, in.MaterialID)
		if err != nil {
			return err
		}
		if material.AvailableCopies <= 0 {
			return domain.ErrNoCopiesAvailable
		}

		existing, err := s.repo.FindActiveHold(txCtx, in.UserID, in.MaterialID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateActiveHold
		}

		if err := s.applyDelta(txCtx, in.MaterialID, -1); err != nil {
			return err
		}

		hold := domain.Hold{
			ID:              newID(),
			MaterialID:      in.MaterialID,
			UserID:          in.UserID,
			Kind:            domain.HoldKindReservation,
			Status:          domain.HoldStatusPending,
			ReservationDate: &reservation,
			PickupDate:      &pickup,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repo.CreateHold(txCtx, hold); err != nil {
			return err
		}
		result = hold
		return nil
	})
	if err != nil {
		return domain.Hold{}, err
	}

	s.events.Notify(in.UserID, "reservation_created", "Reservation Submitted",
		"Your reservation has been submitted and is pending approval.")
	s.events.Record(in.UserID, "reserve_add", "Reserved material "+in.MaterialID)
	return result, nil
}

type SetReservationStatusInput struct {
	HoldID    string
	NewStatus domain.HoldStatus
	Actor     domain.Principal
}

// SetReservationStatus performs one legal reservation transition. Transitions
// out of an active-holding status into cancelled or rejected refund exactly one
// copy; the borrowed transition routes through conversion and is copy-neutral.
// Repeating a transition, or leaving a terminal status, fails with
// ErrInvalidTransition and changes nothing.
func (s *LedgerService) SetReservationStatus(ctx context.Context, in SetReservationStatusInput) (domain.Hold, error) {
	if in.HoldID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}

	next := in.NewStatus
	if next == domain.HoldStatusActive {
		next = domain.HoldStatusApproved
	}

	switch next {
	case domain.HoldStatusApproved, domain.HoldStatusRejected, domain.HoldStatusBorrowed:
		if !in.Actor.IsStaff() {
			return domain.Hold{}, domain.ErrNotAuthorized
		}
	case domain.HoldStatusCancelled:
		// Ownership is checked against the hold inside the transaction.
	default:
		return domain.Hold{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	var result domain.Hold
	err := s.inTx(ctx, func(txCtx context.Context) error {
		hold, err := s.repo.GetHoldForUpdate(txCtx, in.HoldID)
		if err != nil {
			return err
		}
		if hold.Kind != domain.HoldKindReservation {
			return domain.ErrInvalidTransition
		}
		if next == domain.HoldStatusCancelled && !in.Actor.CanActOn(hold.UserID) {
			return domain.ErrNotAuthorized
		}
		if !hold.CanTransitionTo(next) {
			return domain.ErrInvalidTransition
		}

		switch next {
		case domain.HoldStatusCancelled, domain.HoldStatusRejected:
			// The hold was consuming a copy; give it back exactly once.
			if err := s.applyDelta(txCtx, hold.MaterialID, +1); err != nil {
				return err
			}
			if next == domain.HoldStatusCancelled {
				hold.CancelledAt = &now
			}
		case domain.HoldStatusBorrowed:
			if _, err := s.convertLocked(txCtx, &hold, now); err != nil {
				return err
			}
			result = hold
			return nil
		}

		hold.Status = next
		hold.UpdatedAt = now
		if err := s.repo.UpdateHold(txCtx, hold); err != nil {
			return err
		}
		result = hold
		return nil
	})
	if err != nil {
		return domain.Hold{}, err
	}

	s.notifyTransition(result, next)
	s.events.Record(in.Actor.UserID, "reserve_status_"+string(next),
		"Reservation "+result.ID+" set to "+string(next))
	return result, nil
}

// CancelReservation is a convenience wrapper over the cancelled transition,
// enforcing ownership-or-staff inside.
func (s *LedgerService) CancelReservation(ctx context.Context, holdID string, actor domain.Principal) (domain.Hold, error) {
	return s.SetReservationStatus(ctx, SetReservationStatusInput{
		HoldID:    holdID,
		NewStatus: domain.HoldStatusCancelled,
		Actor:     actor,
	})
}

type ConvertInput struct {
	HoldID string
	Actor  domain.Principal
}

// Convert materializes an approved reservation into a borrowed hold. The copy
// was already held by the reservation, so the counter does not move: the
// reservation becomes terminal (converted) and exactly one new active-holding
// record exists afterwards.
func (s *LedgerService) Convert(ctx context.Context, in ConvertInput) (domain.Hold, error) {
	if in.HoldID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}
	if !in.Actor.IsStaff() {
		return domain.Hold{}, domain.ErrNotAuthorized
	}

	now := s.clock.Now()
	var borrow domain.Hold
	err := s.inTx(ctx, func(txCtx context.Context) error {
		hold, err := s.repo.GetHoldForUpdate(txCtx, in.HoldID)
		if err != nil {
			return err
		}
		b, err := s.convertLocked(txCtx, &hold, now)
		if err != nil {
			return err
		}
		borrow = b
		return nil
	})
	if err != nil {
		return domain.Hold{}, err
	}

	s.events.Notify(borrow.UserID, "reservation_converted", "Reservation Converted",
		"Your reservation has been converted to a borrow.")
	s.events.Record(in.Actor.UserID, "reserve_convert", "Converted reservation "+in.HoldID)
	return borrow, nil
}

// convertLocked runs inside a transaction holding the reservation row lock.
// It mutates hold in place to its terminal converted state and returns the new
// borrow hold.
func (s *LedgerService) convertLocked(ctx context.Context, hold *domain.Hold, now time.Time) (domain.Hold, error) {
	if hold.Kind != domain.HoldKindReservation {
		return domain.Hold{}, domain.ErrNotApproved
	}
	if hold.Status != domain.HoldStatusApproved && hold.Status != domain.HoldStatusActive {
		return domain.Hold{}, domain.ErrNotApproved
	}

	due := now.Add(s.borrowFor)
	borrow := domain.Hold{
		ID:         newID(),
		MaterialID: hold.MaterialID,
		UserID:     hold.UserID,
		Kind:       domain.HoldKindBorrow,
		Status:     domain.HoldStatusBorrowed,
		BorrowDate: &now,
		DueDate:    &due,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateHold(ctx, borrow); err != nil {
		return domain.Hold{}, err
	}

	hold.Status = domain.HoldStatusConverted
	hold.UpdatedAt = now
	if err := s.repo.UpdateHold(ctx, *hold); err != nil {
		return domain.Hold{}, err
	}
	return borrow, nil
}

// CancelBorrow cancels a borrowed hold and refunds its copy.
func (s *LedgerService) CancelBorrow(ctx context.Context, holdID string, actor domain.Principal) (domain.Hold, error) {
	if holdID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result domain.Hold
	err := s.inTx(ctx, func(txCtx context.Context) error {
		hold, err := s.repo.GetHoldForUpdate(txCtx, holdID)
		if err != nil {
			return err
		}
		if !actor.CanActOn(hold.UserID) {
			return domain.ErrNotAuthorized
		}
		if hold.Kind != domain.HoldKindBorrow || hold.Status != domain.HoldStatusBorrowed {
			return domain.ErrNotBorrowed
		}

		if err := s.applyDelta(txCtx, hold.MaterialID, +1); err != nil {
			return err
		}

		hold.Status = domain.HoldStatusCancelled
		hold.CancelledAt = &now
		hold.UpdatedAt = now
		if err := s.repo.UpdateHold(txCtx, hold); err != nil {
			return err
		}
		result = hold
		return nil
	})
	if err != nil {
		return domain.Hold{}, err
	}

	s.events.Notify(result.UserID, "borrow_cancelled", "Borrow Cancelled",
		"Your borrow has been cancelled.")
	s.events.Record(actor.UserID, "borrow_cancel", "Cancelled borrow "+holdID)
	return result, nil
}

// ReturnBorrow marks a borrowed hold returned, refunds its copy, and settles
// any overdue fine at the return instant.
func (s *LedgerService) ReturnBorrow(ctx context.Context, holdID string) (domain.Hold, error) {
	if holdID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	var result domain.Hold
	err := s.inTx(ctx, func(txCtx context.Context) error {
		hold, err := s.repo.GetHoldForUpdate(txCtx, holdID)
		if err != nil {
			return err
		}
		if hold.Kind != domain.HoldKindBorrow || hold.Status != domain.HoldStatusBorrowed {
			return domain.ErrNotBorrowed
		}

		if err := s.applyDelta(txCtx, hold.MaterialID, +1); err != nil {
			return err
		}

		hold.FineAmount = hold.Fine(now)
		hold.Overdue = hold.DueDate != nil && now.After(*hold.DueDate)
		hold.Status = domain.HoldStatusReturned
		hold.ReturnedAt = &now
		hold.UpdatedAt = now
		if err := s.repo.UpdateHold(txCtx, hold); err != nil {
			return err
		}
		result = hold
		return nil
	})
	if err != nil {
		return domain.Hold{}, err
	}

	s.events.Notify(result.UserID, "borrow_returned", "Material Returned",
		"Thank you, your borrow has been returned.")
	s.events.Record(result.UserID, "borrow_return", "Returned borrow "+holdID)
	return result, nil
}

type DirectBorrowInput struct {
	MaterialID   string
	UserID       string
	DurationDays int
	Actor        domain.Principal
}

// CreateDirectBorrow is the walk-in path: staff checks a copy out with no prior
// reservation. Same guards as Reserve except the date window.
func (s *LedgerService) CreateDirectBorrow(ctx context.Context, in DirectBorrowInput) (domain.Hold, error) {
	if in.MaterialID == "" || in.UserID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}
	if !in.Actor.IsStaff() {
		return domain.Hold{}, domain.ErrNotAuthorized
	}

	now := s.clock.Now()
	duration := time.Duration(in.DurationDays) * 24 * time.Hour
	if duration <= 0 {
		duration = s.borrowFor
	}
	due := now.Add(duration)

	var result domain.Hold
	err := s.inTx(ctx, func(txCtx context.Context) error {
		material, err := s.repo.GetMaterialForUpdate(txCtx, in.MaterialID)
		if err != nil {
			return err
		}
		if material.AvailableCopies <= 0 {
			return domain.ErrNoCopiesAvailable
		}

		existing, err := s.repo.FindActiveHold(txCtx, in.UserID, in.MaterialID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateActiveHold
		}

		if err := s.applyDelta(txCtx, in.MaterialID, -1); err != nil {
			return err
		}

		hold := domain.Hold{
			ID:         newID(),
			MaterialID: in.MaterialID,
			UserID:     in.UserID,
			Kind:       domain.HoldKindBorrow,
			Status:     domain.HoldStatusBorrowed,
			BorrowDate: &now,
			DueDate:    &due,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.CreateHold(txCtx, hold); err != nil {
			return err
		}
		result = hold
		return nil
	})
	if err != nil {
		return domain.Hold{}, err
	}

	s.events.Notify(in.UserID, "borrow_created", "Material Borrowed",
		"A material has been checked out to you.")
	s.events.Record(in.Actor.UserID, "borrow_add", "Direct borrow of material "+in.MaterialID)
	return result, nil
}

// GetHold fetches one hold; the transport layer enforces who may see it.
func (s *LedgerService) GetHold(ctx context.Context, holdID string) (domain.Hold, error) {
	if holdID == "" {
		return domain.Hold{}, domain.ErrInvalidID
	}
	return s.repo.GetHold(ctx, holdID)
}

// ListUserHolds returns all holds belonging to a user, newest first.
func (s *LedgerService) ListUserHolds(ctx context.Context, userID string) ([]domain.Hold, error) {
	if userID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListHoldsByUser(ctx, userID)
}

// ListHolds is the staff view, optionally filtered by kind and status.
func (s *LedgerService) ListHolds(ctx context.Context, kind domain.HoldKind, status domain.HoldStatus) ([]domain.Hold, error) {
	return s.repo.ListHolds(ctx, kind, status)
}

func (s *LedgerService) notifyTransition(hold domain.Hold, next domain.HoldStatus) {
	switch next {
	case domain.HoldStatusApproved:
		s.events.Notify(hold.UserID, "reservation_approved", "Reservation Approved",
			"Your reservation has been approved.")
	case domain.HoldStatusRejected:
		s.events.Notify(hold.UserID, "reservation_rejected", "Reservation Rejected",
			"Your reservation has been rejected.")
	case domain.HoldStatusCancelled:
		s.events.Notify(hold.UserID, "reservation_cancelled", "Reservation Cancelled",
			"Your reservation has been cancelled.")
	case domain.HoldStatusBorrowed:
		s.events.Notify(hold.UserID, "reservation_converted", "Reservation Converted",
			"Your reservation has been converted to a borrow.")
	}
}
