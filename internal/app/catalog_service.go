package app

import (
	"context"
	"errors"

	"github.com/macaraegjami/mobile-backend/internal/clock"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type MaterialRepository interface {
	GetMaterial(ctx context.Context, id string) (domain.Material, error)
	ListMaterials(ctx context.Context, filter MaterialFilter) ([]domain.Material, error)
	CreateMaterial(ctx context.Context, m domain.Material) error
	// UpdateMaterial persists catalog metadata and total_copies. It must never
	// write available_copies directly; only the ledger moves that counter.
	UpdateMaterial(ctx context.Context, m domain.Material) error
	SetAverageRating(ctx context.Context, materialID string, avg float64) error
}

type MaterialFilter struct {
	Search        string
	MaterialType  string
	AvailableOnly bool
}

// CatalogService covers the plain-CRUD side of the catalog: metadata reads for
// everyone, create/update for staff. Copy-count changes go through the ledger.
type CatalogService struct {
	repo  MaterialRepository
	clock clock.Clock
}

func NewCatalogService(repo MaterialRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{repo: repo, clock: clk}
}

func (s *CatalogService) GetMaterial(ctx context.Context, id string) (domain.Material, error) {
	if id == "" {
		return domain.Material{}, domain.ErrInvalidID
	}
	return s.repo.GetMaterial(ctx, id)
}

func (s *CatalogService) ListMaterials(ctx context.Context, filter MaterialFilter) ([]domain.Material, error) {
	return s.repo.ListMaterials(ctx, filter)
}

type CreateMaterialInput struct {
	Title           string
	Author          string
	ISBN            string
	AccessionNumber string
	MaterialType    string
	PublicationYear int
	Description     string
	ImageURL        string
	TotalCopies     int
	Actor           domain.Principal
}

func (s *CatalogService) CreateMaterial(ctx context.Context, in CreateMaterialInput) (domain.Material, error) {
	if !in.Actor.IsStaff() {
		return domain.Material{}, domain.ErrNotAuthorized
	}
	if in.Title == "" {
		return domain.Material{}, errors.New("title is required")
	}
	if in.TotalCopies < 0 {
		return domain.Material{}, errors.New("total copies cannot be negative")
	}

	now := s.clock.Now()
	m := domain.Material{
		ID:              newID(),
		Title:           in.Title,
		Author:          in.Author,
		ISBN:            in.ISBN,
		AccessionNumber: in.AccessionNumber,
		MaterialType:    in.MaterialType,
		PublicationYear: in.PublicationYear,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies, // new items start fully on the shelf
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateMaterial(ctx, m); err != nil {
		return domain.Material{}, err
	}
	return m, nil
}

type UpdateMaterialInput struct {
	ID              string
	Title           string
	Author          string
	ISBN            string
	AccessionNumber string
	MaterialType    string
	PublicationYear int
	Description     string
	ImageURL        string
	Actor           domain.Principal
}

// UpdateMaterial edits catalog metadata only. Changing the number of physical
// copies is a stock operation handled separately so the availability counter
// stays consistent with outstanding holds.
func (s *CatalogService) UpdateMaterial(ctx context.Context, in UpdateMaterialInput) (domain.Material, error) {
	if !in.Actor.IsStaff() {
		return domain.Material{}, domain.ErrNotAuthorized
	}
	if in.ID == "" {
		return domain.Material{}, domain.ErrInvalidID
	}

	m, err := s.repo.GetMaterial(ctx, in.ID)
	if err != nil {
		return domain.Material{}, err
	}

	m.Title = in.Title
	m.Author = in.Author
	m.ISBN = in.ISBN
	m.AccessionNumber = in.AccessionNumber
	m.MaterialType = in.MaterialType
	m.PublicationYear = in.PublicationYear
	m.Description = in.Description
	m.ImageURL = in.ImageURL
	m.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateMaterial(ctx, m); err != nil {
		return domain.Material{}, err
	}
	return m, nil
}
