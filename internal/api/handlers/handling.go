package handlers

import (
	"cargo-tracking-service/internal/api/dto"
	"cargo-tracking-service/internal/ports"
	"cargo-tracking-service/internal/services"
	"context"
	"net/http"
)

type ReportService interface {
	SubmitReport(ctx context.Context, report services.HandlingReport) (ports.HandlingEventRegistrationAttempt, error)
}

// HandlingReportHandler accepts handling reports. Registration happens
// asynchronously, so a well-formed report is answered with 202.
type HandlingReportHandler struct {
	Reports ReportService
}

func (h *HandlingReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.HandlingReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	attempt, err := h.Reports.SubmitReport(r.Context(), services.HandlingReport{
		CompletionTime: req.CompletionTime,
		TrackingID:     req.TrackingID,
		VoyageNumber:   req.VoyageNumber,
		UnLocode:       req.UnLocode,
		EventType:      req.EventType,
	})
	if err != nil {
		writeServiceError(w, r, "submit handling report", err)
		return
	}

	writeJSON(w, r, http.StatusAccepted, dto.HandlingReportResponse{
		TrackingID:       attempt.TrackingID.String(),
		EventType:        attempt.Type.String(),
		RegistrationTime: attempt.RegistrationTime,
	})
}
