package app

import (
	"context"

	"github.com/macaraegjami/mobile-backend/internal/clock"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type RatingRepository interface {
	CreateRating(ctx context.Context, r domain.Rating) error
	FindRatingByHold(ctx context.Context, holdID string) (*domain.Rating, error)
	ListRatingsByMaterial(ctx context.Context, materialID string) ([]domain.Rating, error)
}

// RatingService lets a patron review a material once per returned borrow.
// Eligibility is the one place the CRUD side reads hold history.
type RatingService struct {
	ratings   RatingRepository
	holds     LedgerRepository
	materials MaterialRepository
	clock     clock.Clock
}

func NewRatingService(ratings RatingRepository, holds LedgerRepository, materials MaterialRepository, clk clock.Clock) *RatingService {
	return &RatingService{ratings: ratings, holds: holds, materials: materials, clock: clk}
}

type CreateRatingInput struct {
	MaterialID string
	HoldID     string
	Rating     int
	Review     string
	Actor      domain.Principal
}

func (s *RatingService) CreateRating(ctx context.Context, in CreateRatingInput) (domain.Rating, error) {
	if in.MaterialID == "" || in.HoldID == "" {
		return domain.Rating{}, domain.ErrInvalidID
	}
	if in.Rating < 1 || in.Rating > 5 {
		return domain.Rating{}, domain.ErrInvalidRating
	}

	hold, err := s.holds.GetHold(ctx, in.HoldID)
	if err != nil {
		return domain.Rating{}, err
	}
	if hold.UserID != in.Actor.UserID ||
		hold.MaterialID != in.MaterialID ||
		hold.Kind != domain.HoldKindBorrow ||
		hold.Status != domain.HoldStatusReturned {
		return domain.Rating{}, domain.ErrRatingNotEligible
	}

	existing, err := s.ratings.FindRatingByHold(ctx, in.HoldID)
	if err != nil {
		return domain.Rating{}, err
	}
	if existing != nil {
		return domain.Rating{}, domain.ErrAlreadyRated
	}

	r := domain.Rating{
		ID:         newID(),
		UserID:     in.Actor.UserID,
		MaterialID: in.MaterialID,
		HoldID:     in.HoldID,
		Rating:     in.Rating,
		Review:     in.Review,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.ratings.CreateRating(ctx, r); err != nil {
		return domain.Rating{}, err
	}

	if err := s.refreshAverage(ctx, in.MaterialID); err != nil {
		// The rating is saved; a stale average will self-correct on the next
		// rating for this material.
		return r, nil
	}
	return r, nil
}

func (s *RatingService) ListRatings(ctx context.Context, materialID string) ([]domain.Rating, error) {
	if materialID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.ratings.ListRatingsByMaterial(ctx, materialID)
}

func (s *RatingService) refreshAverage(ctx context.Context, materialID string) error {
	all, err := s.ratings.ListRatingsByMaterial(ctx, materialID)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}
	sum := 0
	for _, r := range all {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(all))
	return s.materials.SetAverageRating(ctx, materialID, avg)
}
