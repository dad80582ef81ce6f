package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services bundles everything the router needs. Each handler still declares
// its own minimal interface; this struct is just the wiring point.
type Services struct {
	Auth         Authenticator
	Reservations ReservationService
	Borrows      BorrowService
	Holds        HoldReader
	Catalog      interface {
		CatalogReader
		CatalogWriter
	}
	Engagement EngagementAPI
	Ratings    RatingAPI
	Inbox      InboxAPI
}

func NewRouter(svcs Services, allowedOrigins []string, logger *log.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return RequestLogger(next, logger)
	})
	r.Use(func(next http.Handler) http.Handler {
		return CORS(allowedOrigins, next)
	})

	r.NotFound(NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", HealthHandler)

	r.Route("/api", func(api chi.Router) {
		// Public catalog browsing and feedback submission.
		api.Get("/materials", HandleListMaterials(svcs.Catalog))
		api.Get("/materials/{id}", HandleGetMaterial(svcs.Catalog))
		api.Get("/materials/{id}/ratings", HandleListRatings(svcs.Ratings))
		api.Post("/feedback", HandleCreateFeedback(svcs.Engagement))
		api.Post("/suggestions", HandleCreateSuggestion(svcs.Engagement))

		api.Group(func(auth chi.Router) {
			auth.Use(RequireAuth(svcs.Auth))

			auth.Post("/materials", HandleCreateMaterial(svcs.Catalog))
			auth.Put("/materials/{id}", HandleUpdateMaterial(svcs.Catalog))
			auth.Post("/materials/{id}/ratings", HandleCreateRating(svcs.Ratings))

			auth.Post("/reservations", HandleCreateReservation(svcs.Reservations))
			auth.Patch("/reservations/{id}/status", HandleSetReservationStatus(svcs.Reservations))
			auth.Post("/reservations/{id}/cancel", HandleCancelReservation(svcs.Reservations))
			auth.Post("/reservations/{id}/convert", HandleConvertReservation(svcs.Reservations))

			auth.Post("/borrows", HandleCreateBorrow(svcs.Borrows))
			auth.Post("/borrows/{id}/return", HandleReturnBorrow(svcs.Borrows))
			auth.Post("/borrows/{id}/cancel", HandleCancelBorrow(svcs.Borrows))

			auth.Get("/holds", HandleListHolds(svcs.Holds))
			auth.Get("/holds/mine", HandleListMyHolds(svcs.Holds))
			auth.Get("/holds/{id}", HandleGetHold(svcs.Holds))

			auth.Get("/feedback", HandleListFeedback(svcs.Engagement))
			auth.Get("/suggestions", HandleListSuggestions(svcs.Engagement))
			auth.Post("/attendance/checkin", HandleCheckIn(svcs.Engagement))
			auth.Post("/attendance/{id}/checkout", HandleCheckOut(svcs.Engagement))
			auth.Get("/attendance", HandleListAttendance(svcs.Engagement))

			auth.Get("/notifications", HandleListNotifications(svcs.Inbox))
			auth.Post("/notifications/{id}/read", HandleMarkNotificationRead(svcs.Inbox))
			auth.Get("/activity", HandleListActivity(svcs.Inbox))
		})
	})

	return r
}
