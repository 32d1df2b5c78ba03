package handlers

import (
	"cargo-tracking-service/internal/api/dto"
	"cargo-tracking-service/internal/domain"
	"context"
	"net/http"
)

type LocationLister interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
}

type LocationHandler struct {
	Locations LocationLister
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Locations.ListLocations(r.Context())
	if err != nil {
		writeServiceError(w, r, "list locations", err)
		return
	}

	res := dto.ListLocationsResponse{Locations: make([]dto.LocationResponse, 0, len(locations))}
	for _, l := range locations {
		res.Locations = append(res.Locations, dto.LocationResponse{UnLocode: l.UnLocode.String(), Name: l.Name})
	}
	writeJSON(w, r, http.StatusOK, res)
}
