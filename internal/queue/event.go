package queue

import "time"

type EventType string

const (
	EventBookingConfirmed EventType = "booking.confirmed"
	EventWaitlistPromoted EventType = "booking.waitlist_promoted"
	EventBookingCancelled EventType = "booking.cancelled"
)

// BookingEvent is the message published after a reservation operation has
// committed. Consumers must tolerate duplicates: publishing happens after
// the state change, so a crash in between can replay.
type BookingEvent struct {
	Type       EventType `json:"type"`
	BookingID  string    `json:"booking_id"`
	Reference  string    `json:"reference"`
	UserID     string    `json:"user_id"`
	ScheduleID string    `json:"schedule_id"`
	Seats      int       `json:"seats"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
