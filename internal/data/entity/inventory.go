package entity

import (
	"github.com/google/uuid"
)

// ScheduleInventory is the seat pool of one schedule. AvailableSeats stays
// within [0, TotalSeats]; SeatCursor only ever advances and drives
// deterministic seat numbering. Both counters are mutated exclusively by
// the reservation engine while it holds the schedule's lock.
type ScheduleInventory struct {
	ScheduleID     uuid.UUID   `db:"schedule_id"`
	ScheduleType   BookingType `db:"schedule_type"`
	TotalSeats     int         `db:"total_seats"`
	AvailableSeats int         `db:"available_seats"`
	SeatCursor     int         `db:"seat_cursor"`
	BaseFare       float64     `db:"base_fare"`
	ClassCode      string      `db:"class_code"`
	QuotaCode      string      `db:"quota_code"`
}
