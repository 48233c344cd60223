package usecase

import (
	"context"
	"fmt"
	"time"

	"transit-hub/internal/data/entity"
	"transit-hub/internal/data/repository"
	"transit-hub/internal/dto/request"
	"transit-hub/internal/dto/response"
	"transit-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentGateway is the external charging collaborator. It is called only
// after a reservation operation has committed, never under a schedule
// lock.
type PaymentGateway interface {
	Charge(ctx context.Context, reference string, amount float64) (string, error)
	Refund(ctx context.Context, transactionID string, amount float64) (string, error)
}

// simulatedGateway approves everything. Stands in for a real processor
// in local and test environments.
type simulatedGateway struct{}

func NewSimulatedGateway() PaymentGateway {
	return &simulatedGateway{}
}

func (g *simulatedGateway) Charge(_ context.Context, _ string, _ float64) (string, error) {
	return utils.GenerateTransactionRef(), nil
}

func (g *simulatedGateway) Refund(_ context.Context, _ string, _ float64) (string, error) {
	return utils.GenerateTransactionRef(), nil
}

type PaymentService interface {
	ProcessPayment(ctx context.Context, userID uuid.UUID, req *request.ProcessPaymentRequest) (*response.PaymentResponse, error)
	RefundBooking(ctx context.Context, bookingID uuid.UUID, amount float64) error
}

type paymentService struct {
	repo    *repository.Repository
	gateway PaymentGateway
	log     *zap.Logger
}

func NewPaymentService(repo *repository.Repository, gateway PaymentGateway, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:    repo,
		gateway: gateway,
		log:     log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) ProcessPayment(ctx context.Context, userID uuid.UUID, req *request.ProcessPaymentRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Process payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", req.BookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, ErrNotFound)
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("pay booking %s: %w", req.BookingID, ErrForbidden)
	}
	if booking.Status.IsTerminal() {
		return nil, fmt.Errorf("pay booking %s in status %s: %w", req.BookingID, booking.Status, ErrAlreadyTerminal)
	}

	existing, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		if p.Status == entity.PaymentStatusCompleted {
			return nil, fmt.Errorf("booking %s is already paid", req.BookingID)
		}
	}

	txnID, err := s.gateway.Charge(ctx, booking.Reference, booking.TotalAmount)
	if err != nil {
		s.log.Error("Gateway charge failed",
			zap.Error(err),
			zap.String("booking_id", req.BookingID),
			zap.Float64("amount", booking.TotalAmount),
		)
		return nil, fmt.Errorf("charge booking %s: %w", req.BookingID, err)
	}

	now := time.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:     bookingID,
		Amount:        booking.TotalAmount,
		Status:        entity.PaymentStatusCompleted,
		TransactionID: &txnID,
	}
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info("Payment processed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", req.BookingID),
		zap.Float64("amount", payment.Amount),
	)

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

// RefundBooking refunds the captured payment after a cancellation. Called
// post-commit; a gateway failure here leaves the cancellation intact and
// only logs the refund for manual follow-up.
func (s *paymentService) RefundBooking(ctx context.Context, bookingID uuid.UUID, amount float64) error {
	if amount <= 0 {
		return nil
	}

	payments, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}

	var captured *entity.Payment
	for _, p := range payments {
		if p.Status == entity.PaymentStatusCompleted {
			captured = p
			break
		}
	}
	if captured == nil {
		s.log.Info("No captured payment to refund",
			zap.String("booking_id", bookingID.String()),
		)
		return nil
	}

	txnID := ""
	if captured.TransactionID != nil {
		txnID = *captured.TransactionID
	}
	if _, err := s.gateway.Refund(ctx, txnID, amount); err != nil {
		s.log.Error("Gateway refund failed, needs manual follow-up",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.Float64("amount", amount),
		)
		return fmt.Errorf("refund booking %s: %w", bookingID.String(), err)
	}

	if err := s.repo.Payment.UpdateStatus(ctx, captured.ID, entity.PaymentStatusRefunded); err != nil {
		return err
	}

	s.log.Info("Refund issued",
		zap.String("booking_id", bookingID.String()),
		zap.String("payment_id", captured.ID.String()),
		zap.Float64("amount", amount),
	)
	return nil
}
