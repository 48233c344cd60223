package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusWaitlisted BookingStatus = "waitlisted"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusCompleted  BookingStatus = "completed"
)

// IsTerminal reports whether no further status transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

type BookingType string

const (
	BookingTypeTrain  BookingType = "train"
	BookingTypeFlight BookingType = "flight"
)

type Booking struct {
	Base
	Reference      string        `db:"reference"`
	UserID         uuid.UUID     `db:"user_id"`
	Type           BookingType   `db:"booking_type"`
	ScheduleID     uuid.UUID     `db:"schedule_id"`
	Status         BookingStatus `db:"status"`
	PassengerCount int           `db:"passenger_count"`
	TotalAmount    float64       `db:"total_amount"`
}
