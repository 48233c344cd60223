package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"transit-hub/internal/dto/request"
	"transit-hub/internal/dto/response"
	"transit-hub/internal/usecase"
	"transit-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	reservation usecase.ReservationService
	bookings    usecase.BookingService
	payments    usecase.PaymentService
	log         *zap.Logger
}

func NewBookingHandler(reservation usecase.ReservationService, bookings usecase.BookingService, payments usecase.PaymentService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		reservation: reservation,
		bookings:    bookings,
		payments:    payments,
		log:         log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	scheduleID, err := utils.ParseUUID(req.ScheduleID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid schedule ID format", nil)
		return
	}

	passengers := make([]usecase.PassengerInput, len(req.Passengers))
	for i, p := range req.Passengers {
		passengers[i] = usecase.PassengerInput{
			Name:   p.Name,
			Age:    p.Age,
			Gender: p.Gender,
		}
	}

	result, err := h.reservation.CreateBooking(r.Context(), userID, scheduleID, passengers)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	resp := response.BookingToResponse(result.Booking)
	resp.WaitlistPosition = result.WaitlistPosition
	resp.Passengers = response.PassengersToResponse(result.Passengers)
	for i := range resp.Passengers {
		if i < len(result.SeatNumbers) {
			seat := result.SeatNumbers[i]
			resp.Passengers[i].SeatNumber = &seat
		}
	}

	utils.ResponseCreated(w, "success", resp)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.BookingListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Type:   query.Get("type"),
		Status: query.Get("status"),
	}

	bookings, err := h.bookings.GetUserBookings(r.Context(), userID, req)
	if err != nil {
		h.handleServiceError(w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByReference handles GET /api/bookings/{reference} (protected)
func (h *BookingHandler) GetBookingByReference(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	reference := chi.URLParam(r, "reference")

	booking, err := h.bookings.GetBookingByReference(r.Context(), reference, userID, role == "admin")
	if err != nil {
		h.handleServiceError(w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (protected). Admins
// may cancel any booking, users only their own.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	bookingID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID format", nil)
		return
	}

	var req request.CancelBookingRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	result, err := h.reservation.CancelBooking(r.Context(), bookingID, userID, role == "admin", req.Reason)
	if err != nil {
		h.handleServiceError(w, err, "cancel booking")
		return
	}

	// Refund runs post-commit; a failure leaves the cancellation intact
	// and is followed up out of band.
	if result.RefundAmount > 0 {
		if err := h.payments.RefundBooking(r.Context(), bookingID, result.RefundAmount); err != nil {
			h.log.Error("Refund after cancellation failed",
				zap.Error(err),
				zap.String("booking_id", bookingID.String()),
			)
		}
	}

	resp := response.CancellationResponse{
		BookingID:    result.Booking.ID.String(),
		Reference:    result.Booking.Reference,
		Fee:          result.Fee,
		RefundAmount: result.RefundAmount,
		SeatsFreed:   result.SeatsFreed,
	}
	for _, p := range result.Promoted {
		resp.PromotedRefs = append(resp.PromotedRefs, p.Booking.Reference)
	}

	utils.ResponseSuccess(w, "success", resp)
}

// ProcessPayment handles POST /api/pay (protected)
func (h *BookingHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.payments.ProcessPayment(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "process payment")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// CompleteBooking handles PUT /api/admin/bookings/{id}/complete (admin)
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID format", nil)
		return
	}

	if err := h.reservation.CompleteBooking(r.Context(), bookingID); err != nil {
		h.handleServiceError(w, err, "complete booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		utils.ResponseForbidden(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidPassengerCount):
		utils.ResponseBadRequest(w, err.Error(), nil)
	case errors.Is(err, usecase.ErrAlreadyTerminal), errors.Is(err, usecase.ErrInvalidTransition):
		utils.ResponseConflict(w, err.Error())
	case strings.HasPrefix(err.Error(), "validation failed"):
		utils.ResponseBadRequest(w, err.Error(), nil)
	default:
		h.log.Error("Service error", zap.Error(err), zap.String("operation", op))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
