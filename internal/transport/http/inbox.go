package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type InboxAPI interface {
	ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	ListActivity(ctx context.Context, actor domain.Principal, limit int) ([]domain.Activity, error)
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func HandleListNotifications(svc InboxAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListNotifications(r.Context(), principalFrom(r.Context()).UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, notificationResponse{
				ID: n.ID, Kind: n.Kind, Title: n.Title,
				Message: n.Message, Read: n.Read, CreatedAt: n.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func HandleMarkNotificationRead(svc InboxAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.MarkRead(r.Context(), chi.URLParam(r, "id"), principalFrom(r.Context()).UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type activityResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func HandleListActivity(svc InboxAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		items, err := svc.ListActivity(r.Context(), principalFrom(r.Context()), limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]activityResponse, 0, len(items))
		for _, a := range items {
			out = append(out, activityResponse{
				ID: a.ID, UserID: a.UserID, Action: a.Action,
				Details: a.Details, CreatedAt: a.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
