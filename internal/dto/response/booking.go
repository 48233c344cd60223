package response

import (
	"time"

	"transit-hub/internal/data/entity"
)

type PassengerResponse struct {
	Name       string  `json:"name"`
	Age        int     `json:"age"`
	Gender     string  `json:"gender"`
	SeatNumber *string `json:"seat_number,omitempty"`
}

type BookingResponse struct {
	ID               string              `json:"id"`
	Reference        string              `json:"reference"`
	Type             string              `json:"type"`
	ScheduleID       string              `json:"schedule_id"`
	Status           string              `json:"status"`
	PassengerCount   int                 `json:"passenger_count"`
	TotalAmount      float64             `json:"total_amount"`
	WaitlistPosition int                 `json:"waitlist_position,omitempty"`
	Passengers       []PassengerResponse `json:"passengers,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

type PaymentResponse struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	TransactionID *string   `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type CancellationResponse struct {
	BookingID    string   `json:"booking_id"`
	Reference    string   `json:"reference"`
	Fee          float64  `json:"fee"`
	RefundAmount float64  `json:"refund_amount"`
	SeatsFreed   int      `json:"seats_freed"`
	PromotedRefs []string `json:"promoted_references,omitempty"`
}

type BookingDetailResponse struct {
	BookingResponse
	Payments []PaymentResponse `json:"payments,omitempty"`
}

func PassengersToResponse(passengers []*entity.Passenger) []PassengerResponse {
	out := make([]PassengerResponse, len(passengers))
	for i, p := range passengers {
		out[i] = PassengerResponse{
			Name:       p.Name,
			Age:        p.Age,
			Gender:     p.Gender,
			SeatNumber: p.SeatNumber,
		}
	}
	return out
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:             booking.ID.String(),
		Reference:      booking.Reference,
		Type:           string(booking.Type),
		ScheduleID:     booking.ScheduleID.String(),
		Status:         string(booking.Status),
		PassengerCount: booking.PassengerCount,
		TotalAmount:    booking.TotalAmount,
		CreatedAt:      booking.CreatedAt,
	}
}

func PaymentToResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		BookingID:     p.BookingID.String(),
		Amount:        p.Amount,
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
	}
}
