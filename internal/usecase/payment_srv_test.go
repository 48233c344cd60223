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

func TestProcessPayment_ChargesOnce(t *testing.T) {
	repo, engine := newTestEngine(t)
	service := NewPaymentService(repo, NewSimulatedGateway(), zap.NewNop())
	ctx := context.Background()

	scheduleID := seedSchedule(t, repo, 5, "SL", "GENERAL", 100)
	userID := uuid.New()

	booking, err := engine.CreateBooking(ctx, userID, scheduleID, passengers(2))
	require.NoError(t, err)

	req := &request.ProcessPaymentRequest{BookingID: booking.Booking.ID.String()}

	payment, err := service.ProcessPayment(ctx, userID, req)
	require.NoError(t, err)
	assert.Equal(t, booking.Booking.TotalAmount, payment.Amount)
	assert.Equal(t, string(entity.PaymentStatusCompleted), payment.Status)
	require.NotNil(t, payment.TransactionID)

	// Double charge is rejected.
	_, err = service.ProcessPayment(ctx, userID, req)
	assert.ErrorContains(t, err, "already paid")

	// Only the owner may pay.
	_, err = service.ProcessPayment(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRefundBooking_MarksPaymentRefunded(t *testing.T) {
	repo, engine := newTestEngine(t)
	service := NewPaymentService(repo, NewSimulatedGateway(), zap.NewNop())
	ctx := context.Background()

	scheduleID := seedSchedule(t, repo, 5, "SL", "GENERAL", 100)
	userID := uuid.New()

	booking, err := engine.CreateBooking(ctx, userID, scheduleID, passengers(1))
	require.NoError(t, err)

	_, err = service.ProcessPayment(ctx, userID, &request.ProcessPaymentRequest{
		BookingID: booking.Booking.ID.String(),
	})
	require.NoError(t, err)

	result, err := engine.CancelBooking(ctx, booking.Booking.ID, userID, false, "")
	require.NoError(t, err)

	require.NoError(t, service.RefundBooking(ctx, booking.Booking.ID, result.RefundAmount))

	payments, err := repo.Payment.FindByBookingID(ctx, booking.Booking.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, entity.PaymentStatusRefunded, payments[0].Status)

	// Nothing captured, nothing to refund.
	assert.NoError(t, service.RefundBooking(ctx, uuid.New(), 50))
	// Zero amount is a no-op.
	assert.NoError(t, service.RefundBooking(ctx, booking.Booking.ID, 0))
}
