package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type FeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

func (r *FeedbackRepository) CreateFeedback(ctx context.Context, f domain.Feedback) error {
	const stmt = `
INSERT INTO feedback (id, name, rating, comment, feedback_type, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, stmt, f.ID, f.Name, f.Rating, f.Comment, string(f.Type), f.CreatedAt)
	if err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) ListFeedback(ctx context.Context, feedbackType domain.FeedbackType) ([]domain.Feedback, error) {
	const query = `
SELECT id, name, rating, comment, feedback_type, created_at
FROM feedback
WHERE ($1 = '' OR feedback_type = $1)
ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, string(feedbackType))
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var items []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		var typ string
		if err := rows.Scan(&f.ID, &f.Name, &f.Rating, &f.Comment, &typ, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		f.Type = domain.FeedbackType(typ)
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return items, nil
}

type SuggestionRepository struct {
	pool *pgxpool.Pool
}

func NewSuggestionRepository(pool *pgxpool.Pool) *SuggestionRepository {
	return &SuggestionRepository{pool: pool}
}

func (r *SuggestionRepository) CreateSuggestion(ctx context.Context, s domain.Suggestion) error {
	const stmt = `
INSERT INTO suggestions (id, book_title, author, edition, reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, stmt, s.ID, s.BookTitle, s.Author, s.Edition, s.Reason, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create suggestion: %w", err)
	}
	return nil
}

func (r *SuggestionRepository) ListSuggestions(ctx context.Context) ([]domain.Suggestion, error) {
	const query = `
SELECT id, book_title, author, edition, reason, created_at
FROM suggestions
ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var items []domain.Suggestion
	for rows.Next() {
		var s domain.Suggestion
		if err := rows.Scan(&s.ID, &s.BookTitle, &s.Author, &s.Edition, &s.Reason, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return items, nil
}

type AttendanceRepository struct {
	pool *pgxpool.Pool
}

func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

const attendanceColumns = `id, user_id, status, check_in_time, check_out_time, duration_minutes`

func (r *AttendanceRepository) CreateAttendance(ctx context.Context, a domain.Attendance) error {
	const stmt = `
INSERT INTO attendance (id, user_id, status, check_in_time, check_out_time, duration_minutes)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, stmt, a.ID, a.UserID, string(a.Status), a.CheckInTime, a.CheckOutTime, a.DurationMinutes)
	if err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) FindOpenAttendance(ctx context.Context, userID string) (*domain.Attendance, error) {
	const query = `
SELECT ` + attendanceColumns + `
FROM attendance
WHERE user_id = $1 AND status = 'checked-in'
ORDER BY check_in_time DESC
LIMIT 1`

	a, err := scanAttendance(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find open attendance: %w", err)
	}
	return &a, nil
}

func (r *AttendanceRepository) GetAttendance(ctx context.Context, id string) (domain.Attendance, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance WHERE id = $1`

	a, err := scanAttendance(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Attendance{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Attendance{}, domain.ErrAttendanceNotFound
		}
		return domain.Attendance{}, fmt.Errorf("get attendance: %w", err)
	}
	return a, nil
}

func (r *AttendanceRepository) UpdateAttendance(ctx context.Context, a domain.Attendance) error {
	const stmt = `
UPDATE attendance
SET status = $2, check_out_time = $3, duration_minutes = $4
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, a.ID, string(a.Status), a.CheckOutTime, a.DurationMinutes)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttendanceNotFound
	}
	return nil
}

func (r *AttendanceRepository) ListAttendance(ctx context.Context, limit int) ([]domain.Attendance, error) {
	const query = `
SELECT ` + attendanceColumns + `
FROM attendance
ORDER BY check_in_time DESC
LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var items []domain.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w", err)
	}
	return items, nil
}

func scanAttendance(row pgx.Row) (domain.Attendance, error) {
	var a domain.Attendance
	var status string
	err := row.Scan(&a.ID, &a.UserID, &status, &a.CheckInTime, &a.CheckOutTime, &a.DurationMinutes)
	if err != nil {
		return domain.Attendance{}, err
	}
	a.Status = domain.AttendanceStatus(status)
	return a, nil
}
