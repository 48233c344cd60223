package usecase

import (
	"context"
	"fmt"
	"time"

	"transit-hub/internal/data/entity"
	"transit-hub/internal/data/repository"
	"transit-hub/internal/queue"
	"transit-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher delivers domain events after an operation has committed.
// Implementations must never be called while a schedule lock is held.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.BookingEvent) error
}

// AvailabilityCache is the stale-tolerant seats-left snapshot refreshed
// after inventory changes.
type AvailabilityCache interface {
	SetAvailability(ctx context.Context, scheduleID uuid.UUID, seatsLeft int) error
	GetAvailability(ctx context.Context, scheduleID uuid.UUID) (int, bool, error)
}

// PassengerInput is the caller-supplied passenger snapshot.
type PassengerInput struct {
	Name   string
	Age    int
	Gender string
}

// BookingResult is the outcome of CreateBooking. Exactly one of the two
// shapes applies: confirmed carries seat numbers, waitlisted carries the
// queue position.
type BookingResult struct {
	Booking          *entity.Booking
	Passengers       []*entity.Passenger
	SeatNumbers      []string
	WaitlistPosition int
}

// Promotion describes one waitlisted booking that gained seats during a
// cancellation sweep.
type Promotion struct {
	Booking     *entity.Booking
	SeatNumbers []string
}

// CancellationResult is the outcome of CancelBooking.
type CancellationResult struct {
	Booking      *entity.Booking
	Fee          float64
	RefundAmount float64
	SeatsFreed   int
	Promoted     []Promotion
}

// ReservationService is the sole mutator of inventory, waitlist and
// booking state. All mutations for one schedule run under that schedule's
// lock; payment, events and cache refresh happen strictly after the lock
// is released.
type ReservationService interface {
	CreateBooking(ctx context.Context, userID, scheduleID uuid.UUID, passengers []PassengerInput) (*BookingResult, error)
	CancelBooking(ctx context.Context, bookingID, requestedBy uuid.UUID, isAdmin bool, reason string) (*CancellationResult, error)
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) error
}

type reservationService struct {
	repo      *repository.Repository
	locks     *scheduleLocks
	fare      FarePolicy
	fee       FeePolicy
	publisher EventPublisher
	cache     AvailabilityCache
	log       *zap.Logger
}

func NewReservationService(repo *repository.Repository, publisher EventPublisher, cache AvailabilityCache, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:      repo,
		locks:     newScheduleLocks(),
		publisher: publisher,
		cache:     cache,
		log:       log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) CreateBooking(ctx context.Context, userID, scheduleID uuid.UUID, passengers []PassengerInput) (*BookingResult, error) {
	if len(passengers) < 1 || len(passengers) > 6 {
		return nil, fmt.Errorf("create booking with %d passengers: %w", len(passengers), ErrInvalidPassengerCount)
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID.String(), ErrNotFound)
	}

	seats := len(passengers)
	total := s.fare.FareFor(schedule.BaseFare, schedule.ClassCode, seats)

	unlock := s.locks.Lock(scheduleID)
	defer unlock()

	reserved, err := s.repo.Inventory.TryReserve(ctx, scheduleID, seats)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Reference:      utils.GenerateBookingReference(string(schedule.Type)),
		UserID:         userID,
		Type:           schedule.Type,
		ScheduleID:     scheduleID,
		Status:         entity.BookingStatusConfirmed,
		PassengerCount: seats,
		TotalAmount:    total,
	}
	if !reserved {
		booking.Status = entity.BookingStatusWaitlisted
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if reserved {
			s.compensateRelease(ctx, scheduleID, seats)
		}
		return nil, err
	}

	rows := make([]*entity.Passenger, seats)
	for i, p := range passengers {
		rows[i] = &entity.Passenger{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID: booking.ID,
			Name:      p.Name,
			Age:       p.Age,
			Gender:    p.Gender,
		}
	}
	if err := s.repo.Passenger.CreateBatch(ctx, rows); err != nil {
		s.compensateBooking(ctx, booking, reserved, seats)
		return nil, err
	}

	result := &BookingResult{Booking: booking, Passengers: rows}

	if reserved {
		seatNumbers, err := s.assignSeats(ctx, schedule, booking.ID, seats)
		if err != nil {
			s.repo.Passenger.DeleteByBookingID(ctx, booking.ID)
			s.compensateBooking(ctx, booking, reserved, seats)
			return nil, err
		}
		result.SeatNumbers = seatNumbers
		s.audit(ctx, booking.ID, entity.AuditActionCreated, userID.String(),
			fmt.Sprintf("confirmed with %d seats", seats))
	} else {
		entry := &entity.WaitlistEntry{
			ID:         uuid.New(),
			ScheduleID: scheduleID,
			BookingID:  booking.ID,
			Tier:       entity.TierForQuota(schedule.QuotaCode),
			EnqueuedAt: now,
		}
		position, err := s.repo.Waitlist.Enqueue(ctx, entry)
		if err != nil {
			s.repo.Passenger.DeleteByBookingID(ctx, booking.ID)
			s.compensateBooking(ctx, booking, reserved, seats)
			return nil, err
		}
		result.WaitlistPosition = position
		s.audit(ctx, booking.ID, entity.AuditActionWaitlisted, userID.String(),
			fmt.Sprintf("waitlisted at position %d", position))
	}

	unlock()

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("schedule_id", scheduleID.String()),
		zap.String("status", string(booking.Status)),
		zap.Int("passengers", seats),
		zap.Float64("total_amount", total),
	)

	if reserved {
		s.publish(ctx, queue.EventBookingConfirmed, booking)
		s.refreshAvailability(ctx, scheduleID)
	}

	return result, nil
}

func (s *reservationService) CancelBooking(ctx context.Context, bookingID, requestedBy uuid.UUID, isAdmin bool, reason string) (*CancellationResult, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), ErrNotFound)
	}
	if !isAdmin && booking.UserID != requestedBy {
		return nil, fmt.Errorf("cancel booking %s: %w", bookingID.String(), ErrForbidden)
	}

	unlock := s.locks.Lock(booking.ScheduleID)
	defer unlock()

	// Re-read under the lock: the booking may have been promoted or
	// cancelled while we waited.
	booking, err = s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID.String(), ErrNotFound)
	}
	if booking.Status.IsTerminal() {
		return nil, fmt.Errorf("cancel booking %s in status %s: %w", bookingID.String(), booking.Status, ErrAlreadyTerminal)
	}

	now := time.Now()
	fee := s.fee.FeeFor(booking, now)
	refund := booking.TotalAmount - fee

	result := &CancellationResult{
		Booking:      booking,
		Fee:          fee,
		RefundAmount: refund,
	}

	wasWaitlisted := booking.Status == entity.BookingStatusWaitlisted

	switch booking.Status {
	case entity.BookingStatusWaitlisted:
		// The entry is removed only after the status flip lands, so a
		// failure between the two never strands a waitlisted booking
		// outside the queue.
		position, err := s.repo.Waitlist.PositionOf(ctx, booking.ScheduleID, booking.ID)
		if err != nil {
			return nil, err
		}
		if position == 0 {
			return nil, fmt.Errorf("waitlisted booking %s missing from queue: %w", bookingID.String(), repository.ErrConsistencyViolation)
		}

	case entity.BookingStatusConfirmed:
		if err := s.repo.Inventory.Release(ctx, booking.ScheduleID, booking.PassengerCount); err != nil {
			return nil, err
		}
		result.SeatsFreed = booking.PassengerCount

	default:
		return nil, fmt.Errorf("cancel booking %s in status %s: %w", bookingID.String(), booking.Status, ErrInvalidTransition)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		// Compensate the seat release so availability stays conserved.
		if result.SeatsFreed > 0 {
			if _, rerr := s.repo.Inventory.TryReserve(ctx, booking.ScheduleID, result.SeatsFreed); rerr != nil {
				s.log.Error("Compensation failed after status update error",
					zap.Error(rerr),
					zap.String("booking_id", bookingID.String()),
				)
			}
		}
		return nil, err
	}
	booking.Status = entity.BookingStatusCancelled
	booking.UpdatedAt = now

	if wasWaitlisted {
		// The booking is already terminal; a removal failure leaves a
		// stale entry that the promotion sweep drops on sight.
		if removed, err := s.repo.Waitlist.Remove(ctx, booking.ScheduleID, booking.ID); err != nil || !removed {
			s.log.Error("Failed to remove cancelled booking from waitlist",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
		}
	}

	cancelledBy := "user"
	if isAdmin {
		cancelledBy = "admin"
	}
	record := &entity.Cancellation{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		BookingID:    booking.ID,
		CancelledBy:  cancelledBy,
		Reason:       reason,
		Fee:          fee,
		RefundAmount: refund,
		SeatsFreed:   result.SeatsFreed,
	}
	if err := s.repo.Cancellation.Create(ctx, record); err != nil {
		s.log.Error("Failed to record cancellation",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
	s.audit(ctx, booking.ID, entity.AuditActionCancelled, requestedBy.String(), reason)

	if result.SeatsFreed > 0 {
		promoted, err := s.promoteWaitlist(ctx, booking.ScheduleID)
		if err != nil {
			s.log.Error("Waitlist promotion sweep failed",
				zap.Error(err),
				zap.String("schedule_id", booking.ScheduleID.String()),
			)
		}
		result.Promoted = promoted
	}

	unlock()

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.Float64("fee", fee),
		zap.Float64("refund", refund),
		zap.Int("seats_freed", result.SeatsFreed),
		zap.Int("promoted", len(result.Promoted)),
	)

	s.publish(ctx, queue.EventBookingCancelled, booking)
	for _, p := range result.Promoted {
		s.publish(ctx, queue.EventWaitlistPromoted, p.Booking)
	}
	if result.SeatsFreed > 0 {
		s.refreshAvailability(ctx, booking.ScheduleID)
	}

	return result, nil
}

// promoteWaitlist runs while the caller holds the schedule lock. It serves
// the queue strictly in position order: the head is promoted only when its
// whole party fits, otherwise it blocks the sweep even if a smaller party
// behind it would fit. Seats are never split across the queue.
func (s *reservationService) promoteWaitlist(ctx context.Context, scheduleID uuid.UUID) ([]Promotion, error) {
	schedule, err := s.repo.Schedule.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID.String(), ErrNotFound)
	}

	var promoted []Promotion
	for {
		head, err := s.repo.Waitlist.Peek(ctx, scheduleID)
		if err != nil {
			return promoted, err
		}
		if head == nil {
			return promoted, nil
		}

		candidate, err := s.repo.Booking.FindByID(ctx, head.BookingID)
		if err != nil {
			return promoted, err
		}
		// A stale entry can survive a failed removal during cancellation.
		// Drop it and keep sweeping.
		if candidate == nil || candidate.Status != entity.BookingStatusWaitlisted {
			if _, err := s.repo.Waitlist.Dequeue(ctx, scheduleID); err != nil {
				return promoted, err
			}
			continue
		}

		reserved, err := s.repo.Inventory.TryReserve(ctx, scheduleID, candidate.PassengerCount)
		if err != nil {
			return promoted, err
		}
		if !reserved {
			return promoted, nil
		}

		// The queue entry is removed only once the promotion has fully
		// landed. A failure before the Dequeue leaves the head queued and
		// waitlisted, eligible for the next sweep.
		seatNumbers, err := s.assignSeats(ctx, schedule, candidate.ID, candidate.PassengerCount)
		if err != nil {
			s.compensateRelease(ctx, scheduleID, candidate.PassengerCount)
			return promoted, err
		}

		if err := s.repo.Booking.UpdateStatus(ctx, candidate.ID, entity.BookingStatusConfirmed); err != nil {
			s.compensateRelease(ctx, scheduleID, candidate.PassengerCount)
			return promoted, err
		}

		if _, err := s.repo.Waitlist.Dequeue(ctx, scheduleID); err != nil {
			if rerr := s.repo.Booking.UpdateStatus(ctx, candidate.ID, entity.BookingStatusWaitlisted); rerr != nil {
				s.log.Error("Compensation failed: revert promotion",
					zap.Error(rerr),
					zap.String("booking_id", candidate.ID.String()),
				)
			}
			s.compensateRelease(ctx, scheduleID, candidate.PassengerCount)
			return promoted, err
		}
		candidate.Status = entity.BookingStatusConfirmed

		s.audit(ctx, candidate.ID, entity.AuditActionPromoted, "system",
			fmt.Sprintf("promoted from waitlist, %d seats", candidate.PassengerCount))

		promoted = append(promoted, Promotion{Booking: candidate, SeatNumbers: seatNumbers})
	}
}

func (s *reservationService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking %s: %w", bookingID.String(), ErrNotFound)
	}

	unlock := s.locks.Lock(booking.ScheduleID)
	defer unlock()

	booking, err = s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking %s: %w", bookingID.String(), ErrNotFound)
	}
	if booking.Status.IsTerminal() {
		return fmt.Errorf("complete booking %s in status %s: %w", bookingID.String(), booking.Status, ErrAlreadyTerminal)
	}
	if booking.Status != entity.BookingStatusConfirmed {
		return fmt.Errorf("complete booking %s in status %s: %w", bookingID.String(), booking.Status, ErrInvalidTransition)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, bookingID, entity.BookingStatusCompleted); err != nil {
		return err
	}
	s.audit(ctx, bookingID, entity.AuditActionCompleted, "system", "travel completed")

	s.log.Info("Booking completed", zap.String("booking_id", bookingID.String()))
	return nil
}

// assignSeats advances the schedule's seat cursor and writes one seat
// label per passenger.
func (s *reservationService) assignSeats(ctx context.Context, schedule *entity.Schedule, bookingID uuid.UUID, seats int) ([]string, error) {
	first, err := s.repo.Inventory.AllocateSeats(ctx, schedule.ID, seats)
	if err != nil {
		return nil, err
	}

	seatNumbers := make([]string, seats)
	for i := 0; i < seats; i++ {
		seatNumbers[i] = utils.SeatNumber(schedule.ClassCode, first+i)
	}

	if err := s.repo.Passenger.AssignSeatNumbers(ctx, bookingID, seatNumbers); err != nil {
		return nil, err
	}
	return seatNumbers, nil
}

func (s *reservationService) compensateBooking(ctx context.Context, booking *entity.Booking, reserved bool, seats int) {
	if err := s.repo.Booking.Delete(ctx, booking.ID); err != nil {
		s.log.Error("Compensation failed: delete booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
	if reserved {
		s.compensateRelease(ctx, booking.ScheduleID, seats)
	}
}

func (s *reservationService) compensateRelease(ctx context.Context, scheduleID uuid.UUID, seats int) {
	if err := s.repo.Inventory.Release(ctx, scheduleID, seats); err != nil {
		s.log.Error("Compensation failed: release seats",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Int("seats", seats),
		)
	}
}

func (s *reservationService) audit(ctx context.Context, bookingID uuid.UUID, action, actionBy, details string) {
	a := &entity.BookingAudit{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		BookingID: bookingID,
		Action:    action,
		ActionBy:  actionBy,
		Details:   details,
	}
	if err := s.repo.Audit.Create(ctx, a); err != nil {
		s.log.Error("Failed to write audit record",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("action", action),
		)
	}
}

func (s *reservationService) publish(ctx context.Context, eventType queue.EventType, booking *entity.Booking) {
	if s.publisher == nil {
		return
	}
	event := queue.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID.String(),
		Reference:  booking.Reference,
		UserID:     booking.UserID.String(),
		ScheduleID: booking.ScheduleID.String(),
		Seats:      booking.PassengerCount,
		Amount:     booking.TotalAmount,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("Failed to publish booking event",
			zap.Error(err),
			zap.String("event", string(eventType)),
			zap.String("booking_id", booking.ID.String()),
		)
	}
}

func (s *reservationService) refreshAvailability(ctx context.Context, scheduleID uuid.UUID) {
	if s.cache == nil {
		return
	}
	inv, err := s.repo.Inventory.FindByScheduleID(ctx, scheduleID)
	if err != nil || inv == nil {
		return
	}
	if err := s.cache.SetAvailability(ctx, scheduleID, inv.AvailableSeats); err != nil {
		s.log.Warn("Failed to refresh availability snapshot",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
	}
}
