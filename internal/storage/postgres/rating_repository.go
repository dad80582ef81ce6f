package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type RatingRepository struct {
	pool *pgxpool.Pool
}

func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

func (r *RatingRepository) CreateRating(ctx context.Context, rating domain.Rating) error {
	const stmt = `
INSERT INTO ratings (id, user_id, material_id, hold_id, rating, review, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt,
		rating.ID, rating.UserID, rating.MaterialID, rating.HoldID,
		rating.Rating, rating.Review, rating.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRated
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

func (r *RatingRepository) FindRatingByHold(ctx context.Context, holdID string) (*domain.Rating, error) {
	const query = `
SELECT id, user_id, material_id, hold_id, rating, review, created_at
FROM ratings
WHERE hold_id = $1`

	var rating domain.Rating
	err := r.pool.QueryRow(ctx, query, holdID).Scan(
		&rating.ID, &rating.UserID, &rating.MaterialID, &rating.HoldID,
		&rating.Rating, &rating.Review, &rating.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find rating by hold: %w", err)
	}
	return &rating, nil
}

func (r *RatingRepository) ListRatingsByMaterial(ctx context.Context, materialID string) ([]domain.Rating, error) {
	const query = `
SELECT id, user_id, material_id, hold_id, rating, review, created_at
FROM ratings
WHERE material_id = $1
ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list ratings by material: %w", err)
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var rating domain.Rating
		err := rows.Scan(
			&rating.ID, &rating.UserID, &rating.MaterialID, &rating.HoldID,
			&rating.Rating, &rating.Review, &rating.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}
