package api

import (
	"cargo-tracking-service/internal/api/handlers"
	"cargo-tracking-service/internal/platform/logger"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Booking   handlers.BookingService
	Tracking  handlers.TrackingService
	Reports   handlers.ReportService
	Locations handlers.LocationLister
	Health    map[string]handlers.HealthCheck
	Logger    *logger.Logger
}

// NewRouter wires HTTP handlers with their dependencies. Handlers stay
// unaware of concrete adapters.
func NewRouter(deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	cargos := &handlers.CargoHandler{Booking: deps.Booking, Tracking: deps.Tracking}
	reports := &handlers.HandlingReportHandler{Reports: deps.Reports}
	locations := &handlers.LocationHandler{Locations: deps.Locations}
	health := &handlers.HealthHandler{Checks: deps.Health}

	r := chi.NewRouter()
	r.Use(requestID(log))
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/locations", locations.List)
	r.Post("/handling-reports", reports.Submit)

	r.Route("/cargos", func(r chi.Router) {
		r.Post("/", cargos.Book)
		r.Get("/", cargos.List)
		r.Route("/{trackingID}", func(r chi.Router) {
			r.Get("/", cargos.Get)
			r.Get("/tracking", cargos.Track)
			r.Get("/routes", cargos.Routes)
			r.Put("/itinerary", cargos.AssignRoute)
			r.Put("/destination", cargos.ChangeDestination)
			r.Put("/deadline", cargos.ChangeDeadline)
		})
	})

	return r
}
