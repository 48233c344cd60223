package entity

import (
	"time"

	"github.com/google/uuid"
)

// Master data referenced by schedules. Administration of these records is
// outside this service; they are read for search and display only.

type Station struct {
	Base
	Code string `db:"code"`
	Name string `db:"name"`
	City string `db:"city"`
}

type Airport struct {
	Base
	Code string `db:"code"`
	Name string `db:"name"`
	City string `db:"city"`
}

type Train struct {
	Base
	Number string `db:"number"`
	Name   string `db:"name"`
}

type Flight struct {
	Base
	Number  string `db:"number"`
	Airline string `db:"airline"`
}

// Schedule is one train or flight run on a specific travel date, class and
// quota, carrying its own seat pool (see ScheduleInventory).
type Schedule struct {
	Base
	Type          BookingType `db:"schedule_type"`
	CarrierID     uuid.UUID   `db:"carrier_id"`
	SourceID      uuid.UUID   `db:"source_id"`
	DestinationID uuid.UUID   `db:"destination_id"`
	TravelDate    time.Time   `db:"travel_date"`
	DepartureTime time.Time   `db:"departure_time"`
	ArrivalTime   time.Time   `db:"arrival_time"`
	ClassCode     string      `db:"class_code"`
	QuotaCode     string      `db:"quota_code"`
	BaseFare      float64     `db:"base_fare"`
}
