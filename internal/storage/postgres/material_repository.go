package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macaraegjami/mobile-backend/internal/app"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type MaterialRepository struct {
	pool *pgxpool.Pool
}

func NewMaterialRepository(pool *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{pool: pool}
}

const materialColumns = `
id, title, author, isbn, accession_number, material_type, publication_year,
description, image_url, total_copies, available_copies, average_rating,
created_at, updated_at`

func (r *MaterialRepository) GetMaterial(ctx context.Context, id string) (domain.Material, error) {
	const query = `SELECT` + materialColumns + ` FROM materials WHERE id = $1`

	m, err := scanMaterial(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Material{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Material{}, domain.ErrMaterialNotFound
		}
		return domain.Material{}, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

func (r *MaterialRepository) ListMaterials(ctx context.Context, filter app.MaterialFilter) ([]domain.Material, error) {
	const query = `
SELECT` + materialColumns + `
FROM materials
WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%' OR isbn = $1)
  AND ($2 = '' OR material_type = $2)
  AND (NOT $3 OR available_copies > 0)
ORDER BY title`

	rows, err := r.pool.Query(ctx, query, filter.Search, filter.MaterialType, filter.AvailableOnly)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var materials []domain.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}
	return materials, nil
}

func (r *MaterialRepository) CreateMaterial(ctx context.Context, m domain.Material) error {
	const stmt = `
INSERT INTO materials (
	id, title, author, isbn, accession_number, material_type, publication_year,
	description, image_url, total_copies, available_copies, average_rating,
	created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, stmt,
		m.ID, m.Title, m.Author, m.ISBN, m.AccessionNumber, m.MaterialType,
		m.PublicationYear, m.Description, m.ImageURL, m.TotalCopies,
		m.AvailableCopies, m.AverageRating, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// UpdateMaterial writes catalog metadata only. available_copies is owned by
// the ledger and is deliberately absent from the statement.
func (r *MaterialRepository) UpdateMaterial(ctx context.Context, m domain.Material) error {
	const stmt = `
UPDATE materials
SET title = $2, author = $3, isbn = $4, accession_number = $5,
    material_type = $6, publication_year = $7, description = $8,
    image_url = $9, total_copies = $10, updated_at = $11
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt,
		m.ID, m.Title, m.Author, m.ISBN, m.AccessionNumber,
		m.MaterialType, m.PublicationYear, m.Description,
		m.ImageURL, m.TotalCopies, m.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isCheckViolation(err) {
			return domain.ErrInventoryInvariant
		}
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}

func (r *MaterialRepository) SetAverageRating(ctx context.Context, materialID string, avg float64) error {
	const stmt = `UPDATE materials SET average_rating = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt, materialID, avg)
	if err != nil {
		return fmt.Errorf("set average rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}

func scanMaterial(row pgx.Row) (domain.Material, error) {
	var m domain.Material
	err := row.Scan(
		&m.ID, &m.Title, &m.Author, &m.ISBN, &m.AccessionNumber,
		&m.MaterialType, &m.PublicationYear, &m.Description, &m.ImageURL,
		&m.TotalCopies, &m.AvailableCopies, &m.AverageRating,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}
