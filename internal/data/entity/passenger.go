package entity

import (
	"github.com/google/uuid"
)

// Passenger is an immutable snapshot taken at booking creation. SeatNumber
// stays nil while the booking is waitlisted and is assigned on
// confirmation or promotion.
type Passenger struct {
	BaseSimple
	BookingID  uuid.UUID `db:"booking_id"`
	Name       string    `db:"name"`
	Age        int       `db:"age"`
	Gender     string    `db:"gender"`
	SeatNumber *string   `db:"seat_number"`
}
