package request

// SearchSchedulesRequest queries one travel day on a route. Codes are
// station codes for trains and airport codes for flights.
type SearchSchedulesRequest struct {
	Type       string `json:"type" validate:"required,oneof=train flight"`
	SourceCode string `json:"source_code" validate:"required,min=2,max=5"`
	DestCode   string `json:"destination_code" validate:"required,min=2,max=5"`
	TravelDate string `json:"travel_date" validate:"required,datetime=2006-01-02"`
}
