package http

import (
	"net/http"
	"time"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type holdResponse struct {
	ID              string     `json:"id"`
	MaterialID      string     `json:"material_id"`
	UserID          string     `json:"user_id"`
	Kind            string     `json:"kind"`
	Status          string     `json:"status"`
	ReservationDate *time.Time `json:"reservation_date,omitempty"`
	PickupDate      *time.Time `json:"pickup_date,omitempty"`
	BorrowDate      *time.Time `json:"borrow_date,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	ReturnedAt      *time.Time `json:"returned_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	Overdue         bool       `json:"overdue"`
	FineAmount      string     `json:"fine_amount"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toHoldResponse(h domain.Hold) holdResponse {
	return holdResponse{
		ID:              h.ID,
		MaterialID:      h.MaterialID,
		UserID:          h.UserID,
		Kind:            string(h.Kind),
		Status:          string(h.Status),
		ReservationDate: h.ReservationDate,
		PickupDate:      h.PickupDate,
		BorrowDate:      h.BorrowDate,
		DueDate:         h.DueDate,
		ReturnedAt:      h.ReturnedAt,
		CancelledAt:     h.CancelledAt,
		Overdue:         h.Overdue,
		FineAmount:      h.FineAmount.StringFixed(2),
		CreatedAt:       h.CreatedAt,
	}
}

func toHoldResponses(holds []domain.Hold) []holdResponse {
	out := make([]holdResponse, 0, len(holds))
	for _, h := range holds {
		out = append(out, toHoldResponse(h))
	}
	return out
}

type materialResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn,omitempty"`
	AccessionNumber string    `json:"accession_number,omitempty"`
	MaterialType    string    `json:"material_type,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	Description     string    `json:"description,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	Status          string    `json:"status"`
	AverageRating   float64   `json:"average_rating"`
	CreatedAt       time.Time `json:"created_at"`
}

func toMaterialResponse(m domain.Material) materialResponse {
	return materialResponse{
		ID:              m.ID,
		Title:           m.Title,
		Author:          m.Author,
		ISBN:            m.ISBN,
		AccessionNumber: m.AccessionNumber,
		MaterialType:    m.MaterialType,
		PublicationYear: m.PublicationYear,
		Description:     m.Description,
		ImageURL:        m.ImageURL,
		TotalCopies:     m.TotalCopies,
		AvailableCopies: m.AvailableCopies,
		Status:          string(m.Status()),
		AverageRating:   m.AverageRating,
		CreatedAt:       m.CreatedAt,
	}
}

// parseDate accepts a bare date or a full RFC 3339 timestamp. Timestamps are
// normalized to UTC here; date-window admission compares calendar days and
// must see every operand in the same zone.
func parseDate(w http.ResponseWriter, field, value string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), true
	}
	writeError(w, http.StatusBadRequest, codeValidation, field+" must be YYYY-MM-DD or RFC 3339")
	return time.Time{}, false
}
