package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/macaraegjami/mobile-backend/internal/app"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type BorrowService interface {
	CreateDirectBorrow(ctx context.Context, in app.DirectBorrowInput) (domain.Hold, error)
	ReturnBorrow(ctx context.Context, holdID string) (domain.Hold, error)
	CancelBorrow(ctx context.Context, holdID string, actor domain.Principal) (domain.Hold, error)
}

type createBorrowRequest struct {
	MaterialID   string `json:"material_id"`
	UserID       string `json:"user_id"`
	DurationDays int    `json:"duration_days"`
}

// HandleCreateBorrow is the walk-in checkout: staff borrows a copy on a
// patron's behalf with no prior reservation.
func HandleCreateBorrow(svc BorrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBorrowRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.MaterialID == "" || req.UserID == "" {
			writeError(w, http.StatusBadRequest, codeValidation, "material_id and user_id are required")
			return
		}

		hold, err := svc.CreateDirectBorrow(r.Context(), app.DirectBorrowInput{
			MaterialID:   req.MaterialID,
			UserID:       req.UserID,
			DurationDays: req.DurationDays,
			Actor:        principalFrom(r.Context()),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toHoldResponse(hold))
	}
}

func HandleReturnBorrow(svc BorrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !principalFrom(r.Context()).IsStaff() {
			writeError(w, http.StatusForbidden, codeForbidden, "staff only")
			return
		}

		hold, err := svc.ReturnBorrow(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHoldResponse(hold))
	}
}

func HandleCancelBorrow(svc BorrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hold, err := svc.CancelBorrow(r.Context(), chi.URLParam(r, "id"), principalFrom(r.Context()))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHoldResponse(hold))
	}
}
