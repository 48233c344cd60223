package wire

import (
	"transit-hub/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSearch(r chi.Router, searchHandler *adaptor.SearchHandler) {
	// Public: search and availability are lock-free reads
	r.Get("/api/schedules/search", searchHandler.SearchSchedules)
	r.Get("/api/schedules/{id}/availability", searchHandler.GetAvailability)
}
