package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeUnauthorized       = "unauthorized"
	codeForbidden          = "forbidden"
	codeMaterialNotFound   = "material_not_found"
	codeHoldNotFound       = "hold_not_found"
	codeNoCopies           = "no_copies_available"
	codeDuplicateHold      = "duplicate_active_hold"
	codeInvalidDateWindow  = "invalid_date_window"
	codeInvalidTransition  = "invalid_transition"
	codeNotBorrowed        = "not_borrowed"
	codeNotApproved        = "not_approved"
	codeBusy               = "busy"
	codeRatingNotEligible  = "rating_not_eligible"
	codeAlreadyRated       = "already_rated"
	codeInvalidRating      = "invalid_rating"
	codeAttendanceNotFound = "attendance_not_found"
	codeValidation         = "validation_failed"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the service error taxonomy onto HTTP. Client faults
// are 4xx with a stable code; contention is 409 busy; everything else,
// including an inventory invariant trip, is an opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrMaterialNotFound):
		writeError(w, http.StatusNotFound, codeMaterialNotFound, err.Error())
	case errors.Is(err, domain.ErrHoldNotFound):
		writeError(w, http.StatusNotFound, codeHoldNotFound, err.Error())
	case errors.Is(err, domain.ErrAttendanceNotFound):
		writeError(w, http.StatusNotFound, codeAttendanceNotFound, err.Error())
	case errors.Is(err, domain.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrNoCopiesAvailable):
		writeError(w, http.StatusBadRequest, codeNoCopies, err.Error())
	case errors.Is(err, domain.ErrDuplicateActiveHold):
		writeError(w, http.StatusBadRequest, codeDuplicateHold, err.Error())
	case domain.IsDateWindowViolation(err):
		writeError(w, http.StatusBadRequest, codeInvalidDateWindow, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, codeInvalidTransition, err.Error())
	case errors.Is(err, domain.ErrNotBorrowed):
		writeError(w, http.StatusBadRequest, codeNotBorrowed, err.Error())
	case errors.Is(err, domain.ErrNotApproved):
		writeError(w, http.StatusConflict, codeNotApproved, err.Error())
	case errors.Is(err, domain.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrBusy):
		writeError(w, http.StatusConflict, codeBusy, err.Error())
	case errors.Is(err, domain.ErrRatingNotEligible):
		writeError(w, http.StatusBadRequest, codeRatingNotEligible, err.Error())
	case errors.Is(err, domain.ErrAlreadyRated):
		writeError(w, http.StatusConflict, codeAlreadyRated, err.Error())
	case errors.Is(err, domain.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, codeInvalidRating, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return true
}
