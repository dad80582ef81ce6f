package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/macaraegjami/mobile-backend/internal/app"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

// ReservationService is the slice of the ledger the reservation handlers need.
type ReservationService interface {
	Reserve(ctx context.Context, in app.ReserveInput) (domain.Hold, error)
	SetReservationStatus(ctx context.Context, in app.SetReservationStatusInput) (domain.Hold, error)
	CancelReservation(ctx context.Context, holdID string, actor domain.Principal) (domain.Hold, error)
	Convert(ctx context.Context, in app.ConvertInput) (domain.Hold, error)
}

type createReservationRequest struct {
	MaterialID      string `json:"material_id"`
	ReservationDate string `json:"reservation_date"`
	PickupDate      string `json:"pickup_date"`
}

func HandleCreateReservation(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReservationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.MaterialID == "" || req.ReservationDate == "" || req.PickupDate == "" {
			writeError(w, http.StatusBadRequest, codeValidation,
				"material_id, reservation_date and pickup_date are required")
			return
		}
		reservation, ok := parseDate(w, "reservation_date", req.ReservationDate)
		if !ok {
			return
		}
		pickup, ok := parseDate(w, "pickup_date", req.PickupDate)
		if !ok {
			return
		}

		actor := principalFrom(r.Context())
		hold, err := svc.Reserve(r.Context(), app.ReserveInput{
			MaterialID:      req.MaterialID,
			UserID:          actor.UserID,
			ReservationDate: reservation,
			PickupDate:      pickup,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toHoldResponse(hold))
	}
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func HandleSetReservationStatus(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Status == "" {
			writeError(w, http.StatusBadRequest, codeValidation, "status is required")
			return
		}

		hold, err := svc.SetReservationStatus(r.Context(), app.SetReservationStatusInput{
			HoldID:    chi.URLParam(r, "id"),
			NewStatus: domain.HoldStatus(req.Status),
			Actor:     principalFrom(r.Context()),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHoldResponse(hold))
	}
}

func HandleCancelReservation(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hold, err := svc.CancelReservation(r.Context(), chi.URLParam(r, "id"), principalFrom(r.Context()))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toHoldResponse(hold))
	}
}

func HandleConvertReservation(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		borrow, err := svc.Convert(r.Context(), app.ConvertInput{
			HoldID: chi.URLParam(r, "id"),
			Actor:  principalFrom(r.Context()),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toHoldResponse(borrow))
	}
}
