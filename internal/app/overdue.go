package app

import "context"

// SweepOverdue flags borrowed holds whose due date has passed. The flag is
// orthogonal to status: an overdue hold is still borrowed and still consumes
// its copy, so the sweep never touches available_copies.
func (s *LedgerService) SweepOverdue(ctx context.Context) (int, error) {
	now := s.clock.Now()
	due, err := s.repo.ListDueBorrows(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(due))
	for _, h := range due {
		ids = append(ids, h.ID)
	}
	if err := s.repo.MarkOverdue(ctx, ids); err != nil {
		return 0, err
	}

	for _, h := range due {
		s.events.Notify(h.UserID, "borrow_overdue", "Borrow Overdue",
			"A borrowed material is past its due date. Please return it.")
	}
	return len(due), nil
}
