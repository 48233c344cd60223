package usecase

import (
	"context"
	"fmt"

	"transit-hub/internal/data/entity"
	"transit-hub/internal/data/repository"
	"transit-hub/internal/dto/request"
	"transit-hub/internal/dto/response"
	"transit-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService answers read-only queries over the booking ledger. All
// writes go through the ReservationService.
type BookingService interface {
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByReference(ctx context.Context, reference string, userID uuid.UUID, isAdmin bool) (*response.BookingDetailResponse, error)
}

type bookingService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		log:  log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Booking list validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, req.Type, req.Status, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userID, req.Type, req.Status)
	if err != nil {
		return nil, err
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		items[i] = s.buildBookingResponse(ctx, booking)
	}

	s.log.Info("User bookings retrieved",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(bookings)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *bookingService) GetBookingByReference(ctx context.Context, reference string, userID uuid.UUID, isAdmin bool) (*response.BookingDetailResponse, error) {
	booking, err := s.repo.Booking.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", reference, ErrNotFound)
	}
	if !isAdmin && booking.UserID != userID {
		return nil, fmt.Errorf("booking %s: %w", reference, ErrForbidden)
	}

	detail := &response.BookingDetailResponse{
		BookingResponse: s.buildBookingResponse(ctx, booking),
	}

	payments, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		detail.Payments = append(detail.Payments, response.PaymentToResponse(p))
	}

	return detail, nil
}

// buildBookingResponse attaches passengers and, for waitlisted bookings,
// the live queue position. The position is a lock-free read and may be
// stale by the time the caller sees it.
func (s *bookingService) buildBookingResponse(ctx context.Context, booking *entity.Booking) response.BookingResponse {
	resp := response.BookingToResponse(booking)

	passengers, err := s.repo.Passenger.FindByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to load passengers",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	} else {
		resp.Passengers = response.PassengersToResponse(passengers)
	}

	if booking.Status == entity.BookingStatusWaitlisted {
		position, err := s.repo.Waitlist.PositionOf(ctx, booking.ScheduleID, booking.ID)
		if err != nil {
			s.log.Error("Failed to read waitlist position",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
		}
		resp.WaitlistPosition = position
	}

	return resp
}
