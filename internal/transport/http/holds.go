package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type HoldReader interface {
	GetHold(ctx context.Context, holdID string) (domain.Hold, error)
	ListUserHolds(ctx context.Context, userID string) ([]domain.Hold, error)
	ListHolds(ctx context.Context, kind domain.HoldKind, status domain.HoldStatus) ([]domain.Hold, error)
}

// HandleGetHold returns one hold. Patrons see only their own.
func HandleGetHold(svc HoldReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hold, err := svc.GetHold(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !principalFrom(r.Context()).CanActOn(hold.UserID) {
			writeError(w, http.StatusForbidden, codeForbidden, "not your hold")
			return
		}
		writeJSON(w, http.StatusOK, toHoldResponse(hold))
	}
}

func HandleListMyHolds(svc HoldReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		holds, err := svc.ListUserHolds(r.Context(), principalFrom(r.Context()).UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHoldResponses(holds))
	}
}

// HandleListHolds is the staff-wide view, filterable by kind and status.
func HandleListHolds(svc HoldReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !principalFrom(r.Context()).IsStaff() {
			writeError(w, http.StatusForbidden, codeForbidden, "staff only")
			return
		}

		holds, err := svc.ListHolds(r.Context(),
			domain.HoldKind(r.URL.Query().Get("kind")),
			domain.HoldStatus(r.URL.Query().Get("status")),
		)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHoldResponses(holds))
	}
}
