package adaptor

import (
	"transit-hub/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Booking *BookingHandler
	Search  *SearchHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Booking: NewBookingHandler(service.Reservation, service.Booking, service.Payment, log),
		Search:  NewSearchHandler(service.Search, log),
	}
}
