package response

import (
	"time"

	"transit-hub/internal/data/repository"
)

type ScheduleSearchResponse struct {
	ScheduleID     string    `json:"schedule_id"`
	CarrierNumber  string    `json:"carrier_number"`
	CarrierName    string    `json:"carrier_name"`
	SourceCode     string    `json:"source_code"`
	SourceName     string    `json:"source_name"`
	DestCode       string    `json:"destination_code"`
	DestName       string    `json:"destination_name"`
	TravelDate     string    `json:"travel_date"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	ClassCode      string    `json:"class_code"`
	QuotaCode      string    `json:"quota_code"`
	BaseFare       float64   `json:"base_fare"`
	AvailableSeats int       `json:"available_seats"`
	TotalSeats     int       `json:"total_seats"`
}

type AvailabilityResponse struct {
	ScheduleID     string `json:"schedule_id"`
	AvailableSeats int    `json:"available_seats"`
	WaitlistLength int    `json:"waitlist_length"`
}

func SearchRowToResponse(row *repository.ScheduleSearchRow) ScheduleSearchResponse {
	return ScheduleSearchResponse{
		ScheduleID:     row.ScheduleID.String(),
		CarrierNumber:  row.CarrierNumber,
		CarrierName:    row.CarrierName,
		SourceCode:     row.SourceCode,
		SourceName:     row.SourceName,
		DestCode:       row.DestCode,
		DestName:       row.DestName,
		TravelDate:     row.TravelDate.Format("2006-01-02"),
		DepartureTime:  row.DepartureTime,
		ArrivalTime:    row.ArrivalTime,
		ClassCode:      row.ClassCode,
		QuotaCode:      row.QuotaCode,
		BaseFare:       row.BaseFare,
		AvailableSeats: row.AvailableSeats,
		TotalSeats:     row.TotalSeats,
	}
}
