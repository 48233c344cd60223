package usecase

import (
	"context"
	"testing"

	"transit-hub/internal/data/entity"
	"transit-hub/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetUserBookings_FiltersAndPaginates(t *testing.T) {
	repo, engine := newTestEngine(t)
	service := NewBookingService(repo, zap.NewNop())
	ctx := context.Background()

	trainSchedule := seedSchedule(t, repo, 10, "SL", "GENERAL", 100)
	fullSchedule := seedSchedule(t, repo, 1, "SL", "GENERAL", 100)
	userID := uuid.New()

	confirmed, err := engine.CreateBooking(ctx, userID, trainSchedule, passengers(2))
	require.NoError(t, err)

	_, err = engine.CreateBooking(ctx, uuid.New(), fullSchedule, passengers(1))
	require.NoError(t, err)
	waitlisted, err := engine.CreateBooking(ctx, userID, fullSchedule, passengers(1))
	require.NoError(t, err)

	// Another user's booking stays out of the result.
	_, err = engine.CreateBooking(ctx, uuid.New(), trainSchedule, passengers(1))
	require.NoError(t, err)

	all, err := service.GetUserBookings(ctx, userID, &request.BookingListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
	})
	require.NoError(t, err)
	assert.Len(t, all.Data, 2)
	assert.Equal(t, int64(2), all.Pagination.Total)

	onlyWaitlisted, err := service.GetUserBookings(ctx, userID, &request.BookingListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Status:           "waitlisted",
	})
	require.NoError(t, err)
	require.Len(t, onlyWaitlisted.Data, 1)
	assert.Equal(t, waitlisted.Booking.Reference, onlyWaitlisted.Data[0].Reference)
	// Waitlisted bookings surface their live queue position.
	assert.Equal(t, 1, onlyWaitlisted.Data[0].WaitlistPosition)

	onlyConfirmed, err := service.GetUserBookings(ctx, userID, &request.BookingListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Status:           "confirmed",
	})
	require.NoError(t, err)
	require.Len(t, onlyConfirmed.Data, 1)
	assert.Equal(t, confirmed.Booking.Reference, onlyConfirmed.Data[0].Reference)
	assert.Zero(t, onlyConfirmed.Data[0].WaitlistPosition)
	require.Len(t, onlyConfirmed.Data[0].Passengers, 2)
	assert.NotNil(t, onlyConfirmed.Data[0].Passengers[0].SeatNumber)
}

func TestGetBookingByReference_Ownership(t *testing.T) {
	repo, engine := newTestEngine(t)
	service := NewBookingService(repo, zap.NewNop())
	ctx := context.Background()

	scheduleID := seedSchedule(t, repo, 5, "2A", "GENERAL", 100)
	owner := uuid.New()

	created, err := engine.CreateBooking(ctx, owner, scheduleID, passengers(2))
	require.NoError(t, err)

	detail, err := service.GetBookingByReference(ctx, created.Booking.Reference, owner, false)
	require.NoError(t, err)
	assert.Equal(t, created.Booking.ID.String(), detail.ID)
	assert.Equal(t, string(entity.BookingStatusConfirmed), detail.Status)
	assert.Len(t, detail.Passengers, 2)

	// Strangers are rejected, admins are not.
	_, err = service.GetBookingByReference(ctx, created.Booking.Reference, uuid.New(), false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.GetBookingByReference(ctx, created.Booking.Reference, uuid.New(), true)
	assert.NoError(t, err)

	_, err = service.GetBookingByReference(ctx, "TRN-19700101-000000", owner, false)
	assert.ErrorIs(t, err, ErrNotFound)
}
