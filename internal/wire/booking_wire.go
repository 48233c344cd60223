package wire

import (
	"transit-hub/internal/adaptor"
	"transit-hub/pkg/middleware"
	"transit-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// Protected routes (require auth)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))

		// POST /api/bookings - create booking (confirmed or waitlisted)
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings/{reference} - booking details
		r.Get("/api/bookings/{reference}", bookingHandler.GetBookingByReference)

		// PUT /api/bookings/{id}/cancel - cancel own booking
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/user/bookings - booking history with filters
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		// POST /api/pay - process payment for booking
		r.Post("/api/pay", bookingHandler.ProcessPayment)
	})

	// Admin routes
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		// PUT /api/admin/bookings/{id}/cancel - cancel any booking
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)

		// PUT /api/admin/bookings/{id}/complete - mark travel completed
		r.Put("/{id}/complete", bookingHandler.CompleteBooking)
	})
}
