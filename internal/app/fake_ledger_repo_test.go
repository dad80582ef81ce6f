package app

import (
	"context"
	"sync"
	"time"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

// fakeLedgerRepo is an in-memory LedgerRepository. WithTx holds one big lock
// for the whole transaction, which models the serialization the row lock
// provides, and restores a snapshot when fn fails so aborted transactions
// leave no trace.
type fakeLedgerRepo struct {
	mu        sync.Mutex
	materials map[string]domain.Material
	holds     map[string]domain.Hold

	// deltaHook, when set, intercepts ApplyCopyDelta results.
	deltaHook func(available, total int) (int, int)
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		materials: make(map[string]domain.Material),
		holds:     make(map[string]domain.Hold),
	}
}

func (f *fakeLedgerRepo) addMaterial(id string, total, available int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.materials[id] = domain.Material{ID: id, Title: "Material " + id, TotalCopies: total, AvailableCopies: available}
}

func (f *fakeLedgerRepo) material(id string) domain.Material {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.materials[id]
}

func (f *fakeLedgerRepo) hold(id string) domain.Hold {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.holds[id]
}

func (f *fakeLedgerRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	materialsSnap := make(map[string]domain.Material, len(f.materials))
	for k, v := range f.materials {
		materialsSnap[k] = v
	}
	holdsSnap := make(map[string]domain.Hold, len(f.holds))
	for k, v := range f.holds {
		holdsSnap[k] = v
	}

	if err := fn(ctx); err != nil {
		f.materials = materialsSnap
		f.holds = holdsSnap
		return err
	}
	return nil
}

func (f *fakeLedgerRepo) GetMaterialForUpdate(_ context.Context, materialID string) (domain.Material, error) {
	m, ok := f.materials[materialID]
	if !ok {
		return domain.Material{}, domain.ErrMaterialNotFound
	}
	return m, nil
}

func (f *fakeLedgerRepo) ApplyCopyDelta(_ context.Context, materialID string, delta int) (int, int, error) {
	m, ok := f.materials[materialID]
	if !ok {
		return 0, 0, domain.ErrMaterialNotFound
	}
	m.AvailableCopies += delta
	f.materials[materialID] = m
	if f.deltaHook != nil {
		a, t := f.deltaHook(m.AvailableCopies, m.TotalCopies)
		return a, t, nil
	}
	return m.AvailableCopies, m.TotalCopies, nil
}

func (f *fakeLedgerRepo) FindActiveHold(_ context.Context, userID, materialID string) (*domain.Hold, error) {
	for _, h := range f.holds {
		if h.UserID == userID && h.MaterialID == materialID && h.IsActiveHolding() {
			hold := h
			return &hold, nil
		}
	}
	return nil, nil
}

func (f *fakeLedgerRepo) GetHoldForUpdate(_ context.Context, holdID string) (domain.Hold, error) {
	h, ok := f.holds[holdID]
	if !ok {
		return domain.Hold{}, domain.ErrHoldNotFound
	}
	return h, nil
}

func (f *fakeLedgerRepo) CreateHold(_ context.Context, hold domain.Hold) error {
	f.holds[hold.ID] = hold
	return nil
}

func (f *fakeLedgerRepo) UpdateHold(_ context.Context, hold domain.Hold) error {
	if _, ok := f.holds[hold.ID]; !ok {
		return domain.ErrHoldNotFound
	}
	f.holds[hold.ID] = hold
	return nil
}

func (f *fakeLedgerRepo) GetHold(_ context.Context, holdID string) (domain.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.holds[holdID]
	if !ok {
		return domain.Hold{}, domain.ErrHoldNotFound
	}
	return h, nil
}

func (f *fakeLedgerRepo) ListHoldsByUser(_ context.Context, userID string) ([]domain.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Hold
	for _, h := range f.holds {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) ListHolds(_ context.Context, kind domain.HoldKind, status domain.HoldStatus) ([]domain.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Hold
	for _, h := range f.holds {
		if kind != "" && h.Kind != kind {
			continue
		}
		if status != "" && h.Status != status {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeLedgerRepo) ListDueBorrows(_ context.Context, asOf time.Time) ([]domain.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Hold
	for _, h := range f.holds {
		if h.Kind == domain.HoldKindBorrow && h.Status == domain.HoldStatusBorrowed &&
			!h.Overdue && h.DueDate != nil && h.DueDate.Before(asOf) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) MarkOverdue(_ context.Context, holdIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range holdIDs {
		h, ok := f.holds[id]
		if !ok || h.Status != domain.HoldStatusBorrowed {
			continue
		}
		h.Overdue = true
		f.holds[id] = h
	}
	return nil
}

// recordSink captures events for assertions.
type recordSink struct {
	mu            sync.Mutex
	notifications []string
	actions       []string
}

func (s *recordSink) Notify(_, kind, _, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, kind)
}

func (s *recordSink) Record(_, action, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
}
