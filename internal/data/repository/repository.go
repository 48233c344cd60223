package repository

import (
	"transit-hub/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Schedule     ScheduleRepository
	Inventory    InventoryRepository
	Waitlist     WaitlistRepository
	Booking      BookingRepository
	Passenger    PassengerRepository
	Cancellation CancellationRepository
	Audit        AuditRepository
	Payment      PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Schedule:     NewScheduleRepository(db, log),
		Inventory:    NewInventoryRepository(db, log),
		Waitlist:     NewWaitlistRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Passenger:    NewPassengerRepository(db, log),
		Cancellation: NewCancellationRepository(db, log),
		Audit:        NewAuditRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
	}
}
