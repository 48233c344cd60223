package adaptor

import (
	"errors"
	"net/http"

	"transit-hub/internal/dto/request"
	"transit-hub/internal/usecase"
	"transit-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SearchHandler struct {
	service usecase.SearchService
	log     *zap.Logger
}

func NewSearchHandler(service usecase.SearchService, log *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		log:     log.With(zap.String("handler", "search")),
	}
}

// SearchSchedules handles GET /api/schedules/search (public)
func (h *SearchHandler) SearchSchedules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.SearchSchedulesRequest{
		Type:       query.Get("type"),
		SourceCode: query.Get("source"),
		DestCode:   query.Get("destination"),
		TravelDate: query.Get("travel_date"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	results, err := h.service.SearchSchedules(r.Context(), req)
	if err != nil {
		h.log.Error("Search failed", zap.Error(err))
		utils.ResponseInternalError(w, "Failed to search schedules")
		return
	}

	utils.ResponseSuccess(w, "success", results)
}

// GetAvailability handles GET /api/schedules/{id}/availability (public)
func (h *SearchHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid schedule ID format", nil)
		return
	}

	availability, err := h.service.GetAvailability(r.Context(), scheduleID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			utils.ResponseNotFound(w, err.Error())
			return
		}
		h.log.Error("Get availability failed", zap.Error(err))
		utils.ResponseInternalError(w, "Failed to get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}
