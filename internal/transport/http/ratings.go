package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/macaraegjami/mobile-backend/internal/app"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type RatingAPI interface {
	CreateRating(ctx context.Context, in app.CreateRatingInput) (domain.Rating, error)
	ListRatings(ctx context.Context, materialID string) ([]domain.Rating, error)
}

type createRatingRequest struct {
	HoldID string `json:"hold_id"`
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

type ratingResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	MaterialID string    `json:"material_id"`
	Rating     int       `json:"rating"`
	Review     string    `json:"review,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toRatingResponse(r domain.Rating) ratingResponse {
	return ratingResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		MaterialID: r.MaterialID,
		Rating:     r.Rating,
		Review:     r.Review,
		CreatedAt:  r.CreatedAt,
	}
}

func HandleCreateRating(svc RatingAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRatingRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		rating, err := svc.CreateRating(r.Context(), app.CreateRatingInput{
			MaterialID: chi.URLParam(r, "id"),
			HoldID:     req.HoldID,
			Rating:     req.Rating,
			Review:     req.Review,
			Actor:      principalFrom(r.Context()),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRatingResponse(rating))
	}
}

func HandleListRatings(svc RatingAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ratings, err := svc.ListRatings(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]ratingResponse, 0, len(ratings))
		for _, rt := range ratings {
			out = append(out, toRatingResponse(rt))
		}
		writeJSON(w, http.StatusOK, out)
	}
}
