package handlers

import (
	"cargo-tracking-service/internal/api/dto"
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type BookingService interface {
	BookNewCargo(ctx context.Context, origin, destination domain.UnLocode, arrivalDeadline time.Time) (domain.TrackingID, error)
	LoadCargo(ctx context.Context, id domain.TrackingID) (*domain.Cargo, error)
	ListCargos(ctx context.Context) ([]*domain.Cargo, error)
	RequestPossibleRoutesForCargo(ctx context.Context, id domain.TrackingID) ([]domain.Itinerary, error)
	AssignCargoToRoute(ctx context.Context, id domain.TrackingID, route []services.RouteLeg) error
	ChangeDestination(ctx context.Context, id domain.TrackingID, destination domain.UnLocode) error
	ChangeDeadline(ctx context.Context, id domain.TrackingID, deadline time.Time) error
}

type TrackingService interface {
	Track(ctx context.Context, id domain.TrackingID) (services.TrackingView, error)
}

// CargoHandler exposes booking, routing and tracking of cargos.
type CargoHandler struct {
	Booking  BookingService
	Tracking TrackingService
}

func (h *CargoHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req dto.BookCargoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	origin, err1 := domain.ParseUnLocode(req.Origin)
	destination, err2 := domain.ParseUnLocode(req.Destination)
	if err := errors.Join(err1, err2); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.ArrivalDeadline.IsZero() {
		writeError(w, r, http.StatusBadRequest, "arrival_deadline is required")
		return
	}

	id, err := h.Booking.BookNewCargo(r.Context(), origin, destination, req.ArrivalDeadline.UTC())
	if err != nil {
		writeServiceError(w, r, "book cargo", err)
		return
	}

	w.Header().Set("Location", "/cargos/"+id.String())
	writeJSON(w, r, http.StatusCreated, dto.BookCargoResponse{TrackingID: id.String()})
}

func (h *CargoHandler) List(w http.ResponseWriter, r *http.Request) {
	cargos, err := h.Booking.ListCargos(r.Context())
	if err != nil {
		writeServiceError(w, r, "list cargos", err)
		return
	}

	res := dto.ListCargosResponse{Cargos: make([]dto.CargoResponse, 0, len(cargos))}
	for _, c := range cargos {
		res.Cargos = append(res.Cargos, toCargoResponse(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *CargoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := trackingIDParam(w, r)
	if !ok {
		return
	}
	cargo, err := h.Booking.LoadCargo(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "load cargo", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCargoResponse(cargo))
}

func (h *CargoHandler) Track(w http.ResponseWriter, r *http.Request) {
	id, ok := trackingIDParam(w, r)
	if !ok {
		return
	}
	view, err := h.Tracking.Track(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "track cargo", err)
		return
	}

	res := dto.TrackingResponse{
		TrackingID:           view.TrackingID,
		Origin:               view.Origin,
		Destination:          view.Destination,
		StatusText:           view.StatusText,
		Misdirected:          view.Misdirected,
		ETA:                  view.ETA,
		NextExpectedActivity: view.NextExpectedActivity,
		RoutingStatus:        view.RoutingStatus,
		Events:               make([]dto.TrackingEventResponse, 0, len(view.Events)),
	}
	for _, e := range view.Events {
		res.Events = append(res.Events, dto.TrackingEventResponse{
			Location:     e.Location,
			Time:         e.Time,
			Type:         e.Type,
			VoyageNumber: e.VoyageNumber,
			Expected:     e.Expected,
			Description:  e.Description,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *CargoHandler) Routes(w http.ResponseWriter, r *http.Request) {
	id, ok := trackingIDParam(w, r)
	if !ok {
		return
	}
	routes, err := h.Booking.RequestPossibleRoutesForCargo(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "request routes", err)
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteCandidate, 0, len(routes))}
	for _, it := range routes {
		res.Routes = append(res.Routes, dto.RouteCandidate{
			FinalArrival: it.FinalArrivalDate(),
			Legs:         toLegs(it),
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *CargoHandler) AssignRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := trackingIDParam(w, r)
	if !ok {
		return
	}
	var req dto.AssignRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Legs) == 0 {
		writeError(w, r, http.StatusBadRequest, "legs are required")
		return
	}

	route := make([]services.RouteLeg, 0, len(req.Legs))
	for i, l := range req.Legs {
		leg, err := fromLeg(l)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("leg %d: %v", i+1, err))
			return
		}
		route = append(route, leg)
	}

	if err := h.Booking.AssignCargoToRoute(r.Context(), id, route); err != nil {
		writeServiceError(w, r, "assign route", err)
		return
	}
	h.respondWithCargo(w, r, id)
}

func (h *CargoHandler) ChangeDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := trackingIDParam(w, r)
	if !ok {
		return
	}
	var req dto.ChangeDestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	destination, err := domain.ParseUnLocode(req.Destination)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Booking.ChangeDestination(r.Context(), id, destination); err != nil {
		writeServiceError(w, r, "change destination", err)
		return
	}
	h.respondWithCargo(w, r, id)
}

func (h *CargoHandler) ChangeDeadline(w http.ResponseWriter, r *http.Request) {
	id, ok := trackingIDParam(w, r)
	if !ok {
		return
	}
	var req dto.ChangeDeadlineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ArrivalDeadline.IsZero() {
		writeError(w, r, http.StatusBadRequest, "arrival_deadline is required")
		return
	}

	if err := h.Booking.ChangeDeadline(r.Context(), id, req.ArrivalDeadline.UTC()); err != nil {
		writeServiceError(w, r, "change deadline", err)
		return
	}
	h.respondWithCargo(w, r, id)
}

func (h *CargoHandler) respondWithCargo(w http.ResponseWriter, r *http.Request, id domain.TrackingID) {
	cargo, err := h.Booking.LoadCargo(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "load cargo", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCargoResponse(cargo))
}

func toCargoResponse(c *domain.Cargo) dto.CargoResponse {
	spec := c.RouteSpecification()
	d := c.Delivery()
	res := dto.CargoResponse{
		TrackingID:        c.TrackingID().String(),
		Origin:            c.Origin().UnLocode.String(),
		Destination:       spec.Destination.UnLocode.String(),
		ArrivalDeadline:   spec.ArrivalDeadline,
		RoutingStatus:     string(d.RoutingStatus),
		TransportStatus:   string(d.TransportStatus),
		Misdirected:       d.Misdirected,
		LastKnownLocation: d.LastKnownLocation.UnLocode.String(),
		CurrentVoyage:     d.CurrentVoyage.String(),
		CalculatedAt:      d.CalculatedAt,
		Legs:              toLegs(c.Itinerary()),
	}
	if eta, ok := d.EstimatedTimeOfArrival(); ok {
		res.ETA = &eta
	}
	return res
}

func toLegs(it domain.Itinerary) []dto.LegDTO {
	legs := it.Legs()
	out := make([]dto.LegDTO, 0, len(legs))
	for _, l := range legs {
		out = append(out, dto.LegDTO{
			VoyageNumber: l.Voyage.String(),
			From:         l.LoadLocation.UnLocode.String(),
			To:           l.UnloadLocation.UnLocode.String(),
			LoadTime:     l.LoadTime,
			UnloadTime:   l.UnloadTime,
		})
	}
	return out
}

func fromLeg(l dto.LegDTO) (services.RouteLeg, error) {
	voyage, err := domain.ParseVoyageNumber(l.VoyageNumber)
	if err != nil {
		return services.RouteLeg{}, err
	}
	from, err := domain.ParseUnLocode(l.From)
	if err != nil {
		return services.RouteLeg{}, err
	}
	to, err := domain.ParseUnLocode(l.To)
	if err != nil {
		return services.RouteLeg{}, err
	}
	return services.RouteLeg{
		VoyageNumber: voyage,
		From:         from,
		To:           to,
		LoadTime:     l.LoadTime,
		UnloadTime:   l.UnloadTime,
	}, nil
}
