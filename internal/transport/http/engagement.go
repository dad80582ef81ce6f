package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/macaraegjami/mobile-backend/internal/app"
	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type EngagementAPI interface {
	CreateFeedback(ctx context.Context, in app.CreateFeedbackInput) (domain.Feedback, error)
	ListFeedback(ctx context.Context, feedbackType domain.FeedbackType) ([]domain.Feedback, error)
	CreateSuggestion(ctx context.Context, in app.CreateSuggestionInput) (domain.Suggestion, error)
	ListSuggestions(ctx context.Context) ([]domain.Suggestion, error)
	CheckIn(ctx context.Context, userID string) (domain.Attendance, error)
	CheckOut(ctx context.Context, recordID string, actor domain.Principal) (domain.Attendance, error)
	ListAttendance(ctx context.Context, limit int) ([]domain.Attendance, error)
}

type feedbackRequest struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Type    string `json:"type"`
}

type feedbackResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func HandleCreateFeedback(svc EngagementAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req feedbackRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		f, err := svc.CreateFeedback(r.Context(), app.CreateFeedbackInput{
			Name:    req.Name,
			Rating:  req.Rating,
			Comment: req.Comment,
			Type:    domain.FeedbackType(req.Type),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, feedbackResponse{
			ID: f.ID, Name: f.Name, Rating: f.Rating,
			Comment: f.Comment, Type: string(f.Type), CreatedAt: f.CreatedAt,
		})
	}
}

func HandleListFeedback(svc EngagementAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !principalFrom(r.Context()).IsStaff() {
			writeError(w, http.StatusForbidden, codeForbidden, "staff only")
			return
		}

		items, err := svc.ListFeedback(r.Context(), domain.FeedbackType(r.URL.Query().Get("type")))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]feedbackResponse, 0, len(items))
		for _, f := range items {
			out = append(out, feedbackResponse{
				ID: f.ID, Name: f.Name, Rating: f.Rating,
				Comment: f.Comment, Type: string(f.Type), CreatedAt: f.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type suggestionRequest struct {
	BookTitle string `json:"book_title"`
	Author    string `json:"author"`
	Edition   string `json:"edition"`
	Reason    string `json:"reason"`
}

type suggestionResponse struct {
	ID        string    `json:"id"`
	BookTitle string    `json:"book_title"`
	Author    string    `json:"author"`
	Edition   string    `json:"edition,omitempty"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func toSuggestionResponse(s domain.Suggestion) suggestionResponse {
	return suggestionResponse{
		ID:        s.ID,
		BookTitle: s.BookTitle,
		Author:    s.Author,
		Edition:   s.Edition,
		Reason:    s.Reason,
		CreatedAt: s.CreatedAt,
	}
}

func HandleCreateSuggestion(svc EngagementAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req suggestionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.BookTitle == "" || req.Author == "" || req.Reason == "" {
			writeError(w, http.StatusBadRequest, codeValidation,
				"book_title, author and reason are required")
			return
		}

		s, err := svc.CreateSuggestion(r.Context(), app.CreateSuggestionInput{
			BookTitle: req.BookTitle,
			Author:    req.Author,
			Edition:   req.Edition,
			Reason:    req.Reason,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toSuggestionResponse(s))
	}
}

func HandleListSuggestions(svc EngagementAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !principalFrom(r.Context()).IsStaff() {
			writeError(w, http.StatusForbidden, codeForbidden, "staff only")
			return
		}

		items, err := svc.ListSuggestions(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]suggestionResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toSuggestionResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type attendanceResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Status          string     `json:"status"`
	CheckInTime     time.Time  `json:"check_in_time"`
	CheckOutTime    *time.Time `json:"check_out_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
}

func toAttendanceResponse(a domain.Attendance) attendanceResponse {
	return attendanceResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		Status:          string(a.Status),
		CheckInTime:     a.CheckInTime,
		CheckOutTime:    a.CheckOutTime,
		DurationMinutes: a.DurationMinutes,
	}
}

func HandleCheckIn(svc EngagementAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.CheckIn(r.Context(), principalFrom(r.Context()).UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAttendanceResponse(a))
	}
}

func HandleCheckOut(svc EngagementAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.CheckOut(r.Context(), chi.URLParam(r, "id"), principalFrom(r.Context()))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAttendanceResponse(a))
	}
}

func HandleListAttendance(svc EngagementAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !principalFrom(r.Context()).IsStaff() {
			writeError(w, http.StatusForbidden, codeForbidden, "staff only")
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		items, err := svc.ListAttendance(r.Context(), limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]attendanceResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAttendanceResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}
