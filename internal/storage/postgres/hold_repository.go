package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

// HoldRepository backs the inventory ledger: material row locks, the copy
// counter, and hold records all live here so one transaction can span them.
type HoldRepository struct {
	pool *pgxpool.Pool
}

func NewHoldRepository(pool *pgxpool.Pool) *HoldRepository {
	return &HoldRepository{pool: pool}
}

func (r *HoldRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *HoldRepository) GetMaterialForUpdate(ctx context.Context, materialID string) (domain.Material, error) {
	const query = `
SELECT id, title, author, total_copies, available_copies
FROM materials
WHERE id = $1
FOR UPDATE`

	var m domain.Material
	err := r.queryRow(ctx, query, materialID).
		Scan(&m.ID, &m.Title, &m.Author, &m.TotalCopies, &m.AvailableCopies)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Material{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Material{}, domain.ErrMaterialNotFound
		}
		return domain.Material{}, fmt.Errorf("get material for update: %w", err)
	}
	return m, nil
}

func (r *HoldRepository) ApplyCopyDelta(ctx context.Context, materialID string, delta int) (int, int, error) {
	const stmt = `
UPDATE materials
SET available_copies = available_copies + $2, updated_at = NOW()
WHERE id = $1
RETURNING available_copies, total_copies`

	var available, total int
	err := r.queryRow(ctx, stmt, materialID, delta).Scan(&available, &total)
	if err != nil {
		if isCheckViolation(err) {
			return 0, 0, domain.ErrInventoryInvariant
		}
		if err == pgx.ErrNoRows {
			return 0, 0, domain.ErrMaterialNotFound
		}
		return 0, 0, fmt.Errorf("apply copy delta: %w", err)
	}
	return available, total, nil
}

const holdColumns = `
id, material_id, user_id, kind, status,
reservation_date, pickup_date, borrow_date, due_date,
returned_at, cancelled_at, overdue, fine_amount, created_at, updated_at`

func (r *HoldRepository) FindActiveHold(ctx context.Context, userID, materialID string) (*domain.Hold, error) {
	const query = `
SELECT` + holdColumns + `
FROM holds
WHERE user_id = $1 AND material_id = $2
  AND status IN ('pending', 'approved', 'active', 'borrowed')
LIMIT 1`

	h, err := scanHold(r.queryRow(ctx, query, userID, materialID))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find active hold: %w", err)
	}
	return &h, nil
}

func (r *HoldRepository) GetHoldForUpdate(ctx context.Context, holdID string) (domain.Hold, error) {
	const query = `
SELECT` + holdColumns + `
FROM holds
WHERE id = $1
FOR UPDATE`

	h, err := scanHold(r.queryRow(ctx, query, holdID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Hold{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Hold{}, domain.ErrHoldNotFound
		}
		return domain.Hold{}, fmt.Errorf("get hold for update: %w", err)
	}
	return h, nil
}

func (r *HoldRepository) GetHold(ctx context.Context, holdID string) (domain.Hold, error) {
	const query = `SELECT` + holdColumns + ` FROM holds WHERE id = $1`

	h, err := scanHold(r.queryRow(ctx, query, holdID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Hold{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Hold{}, domain.ErrHoldNotFound
		}
		return domain.Hold{}, fmt.Errorf("get hold: %w", err)
	}
	return h, nil
}

func (r *HoldRepository) CreateHold(ctx context.Context, hold domain.Hold) error {
	const stmt = `
INSERT INTO holds (
	id, material_id, user_id, kind, status,
	reservation_date, pickup_date, borrow_date, due_date,
	returned_at, cancelled_at, overdue, fine_amount, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.exec(ctx, stmt,
		hold.ID, hold.MaterialID, hold.UserID, hold.Kind, hold.Status,
		hold.ReservationDate, hold.PickupDate, hold.BorrowDate, hold.DueDate,
		hold.ReturnedAt, hold.CancelledAt, hold.Overdue, hold.FineAmount,
		hold.CreatedAt, hold.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateActiveHold
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create hold: %w", err)
	}
	return nil
}

func (r *HoldRepository) UpdateHold(ctx context.Context, hold domain.Hold) error {
	const stmt = `
UPDATE holds
SET status = $2, reservation_date = $3, pickup_date = $4, borrow_date = $5,
    due_date = $6, returned_at = $7, cancelled_at = $8, overdue = $9,
    fine_amount = $10, updated_at = $11
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		hold.ID, hold.Status, hold.ReservationDate, hold.PickupDate, hold.BorrowDate,
		hold.DueDate, hold.ReturnedAt, hold.CancelledAt, hold.Overdue,
		hold.FineAmount, hold.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update hold: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHoldNotFound
	}
	return nil
}

func (r *HoldRepository) ListHoldsByUser(ctx context.Context, userID string) ([]domain.Hold, error) {
	const query = `
SELECT` + holdColumns + `
FROM holds
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list holds by user: %w", err)
	}
	defer rows.Close()
	return collectHolds(rows)
}

func (r *HoldRepository) ListHolds(ctx context.Context, kind domain.HoldKind, status domain.HoldStatus) ([]domain.Hold, error) {
	const query = `
SELECT` + holdColumns + `
FROM holds
WHERE ($1 = '' OR kind = $1)
  AND ($2 = '' OR status = $2)
ORDER BY created_at DESC`

	rows, err := r.query(ctx, query, string(kind), string(status))
	if err != nil {
		return nil, fmt.Errorf("list holds: %w", err)
	}
	defer rows.Close()
	return collectHolds(rows)
}

func (r *HoldRepository) ListDueBorrows(ctx context.Context, asOf time.Time) ([]domain.Hold, error) {
	const query = `
SELECT` + holdColumns + `
FROM holds
WHERE kind = 'borrow' AND status = 'borrowed' AND overdue = FALSE AND due_date < $1
ORDER BY due_date`

	rows, err := r.query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("list due borrows: %w", err)
	}
	defer rows.Close()
	return collectHolds(rows)
}

func (r *HoldRepository) MarkOverdue(ctx context.Context, holdIDs []string) error {
	const stmt = `
UPDATE holds
SET overdue = TRUE, updated_at = NOW()
WHERE id = ANY($1::uuid[]) AND status = 'borrowed'`

	if _, err := r.exec(ctx, stmt, holdIDs); err != nil {
		return fmt.Errorf("mark overdue: %w", err)
	}
	return nil
}

func scanHold(row pgx.Row) (domain.Hold, error) {
	var h domain.Hold
	var kind, status string
	err := row.Scan(
		&h.ID, &h.MaterialID, &h.UserID, &kind, &status,
		&h.ReservationDate, &h.PickupDate, &h.BorrowDate, &h.DueDate,
		&h.ReturnedAt, &h.CancelledAt, &h.Overdue, &h.FineAmount,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return domain.Hold{}, err
	}
	h.Kind = domain.HoldKind(kind)
	h.Status = domain.HoldStatus(status)
	return h, nil
}

func collectHolds(rows pgx.Rows) ([]domain.Hold, error) {
	var holds []domain.Hold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hold: %w", err)
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holds: %w", err)
	}
	return holds, nil
}

func (r *HoldRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *HoldRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *HoldRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
