package usecase

import (
	"transit-hub/internal/data/repository"
	"transit-hub/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	Reservation ReservationService
	Booking     BookingService
	Payment     PaymentService
	Search      SearchService
}

func NewService(repo *repository.Repository, config *utils.Config, publisher EventPublisher, cache AvailabilityCache, gateway PaymentGateway, log *zap.Logger) *Service {
	return &Service{
		Auth:        NewAuthService(repo, config, log),
		Reservation: NewReservationService(repo, publisher, cache, log),
		Booking:     NewBookingService(repo, log),
		Payment:     NewPaymentService(repo, gateway, log),
		Search:      NewSearchService(repo, cache, log),
	}
}
