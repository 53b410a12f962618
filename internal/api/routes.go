package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health
//	GET /api/v1/calendars                     nations, dioceses and locales
//	GET /api/v1/calendar                      General Roman Calendar
//	GET /api/v1/calendar/nation/{nation}      national calendar
//	GET /api/v1/calendar/diocese/{diocese}    diocesan calendar
//	GET /api/v1/calendar/date/{date}          one day, scoped by ?nation= or ?diocese=
//
// Calendar routes accept year, year_type, locale, epiphany, ascension,
// corpus_christi and eternal_high_priest query parameters.
func SetupRoutes(handlers *Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.StripSlashes)
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/calendars", handlers.ListCalendars)

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", handlers.GetCalendar)
			r.Get("/nation/{nation}", handlers.GetNationalCalendar)
			r.Get("/diocese/{diocese}", handlers.GetDiocesanCalendar)
			r.Get("/date/{date}", handlers.GetDate)
		})
	})

	return r
}
