package request

type PassengerRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Age    int    `json:"age" validate:"required,min=1,max=120"`
	Gender string `json:"gender" validate:"required,oneof=male female other"`
}

type CreateBookingRequest struct {
	ScheduleID string             `json:"schedule_id" validate:"required,uuid4"`
	Passengers []PassengerRequest `json:"passengers" validate:"required,min=1,max=6,dive"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type ProcessPaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
}
