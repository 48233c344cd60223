package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"transit-hub/internal/data/entity"
	"transit-hub/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) (*repository.Repository, ReservationService) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	return repo, NewReservationService(repo, nil, nil, zap.NewNop())
}

func seedSchedule(t *testing.T, repo *repository.Repository, totalSeats int, classCode, quotaCode string, baseFare float64) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	schedule := &entity.Schedule{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Type:          entity.BookingTypeTrain,
		CarrierID:     uuid.New(),
		SourceID:      uuid.New(),
		DestinationID: uuid.New(),
		TravelDate:    now.AddDate(0, 0, 7),
		DepartureTime: now.AddDate(0, 0, 7),
		ArrivalTime:   now.AddDate(0, 0, 7).Add(6 * time.Hour),
		ClassCode:     classCode,
		QuotaCode:     quotaCode,
		BaseFare:      baseFare,
	}
	require.NoError(t, repo.Schedule.Create(ctx, schedule))

	inv := &entity.ScheduleInventory{
		ScheduleID:     schedule.ID,
		ScheduleType:   schedule.Type,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		BaseFare:       baseFare,
		ClassCode:      classCode,
		QuotaCode:      quotaCode,
	}
	require.NoError(t, repo.Inventory.Create(ctx, inv))

	return schedule.ID
}

func passengers(n int) []PassengerInput {
	out := make([]PassengerInput, n)
	for i := range out {
		out[i] = PassengerInput{Name: "Passenger", Age: 30, Gender: "female"}
	}
	return out
}

func availableSeats(t *testing.T, repo *repository.Repository, scheduleID uuid.UUID) int {
	t.Helper()
	inv, err := repo.Inventory.FindByScheduleID(context.Background(), scheduleID)
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv.AvailableSeats
}

func TestCreateBooking_ConfirmsWhenSeatsAvailable(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 10, "3A", "GENERAL", 100)
	userID := uuid.New()

	result, err := engine.CreateBooking(context.Background(), userID, scheduleID, passengers(3))
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusConfirmed, result.Booking.Status)
	assert.Equal(t, 3, result.Booking.PassengerCount)
	// 100 base fare x 1.5 (3A) x 3 passengers
	assert.Equal(t, 450.0, result.Booking.TotalAmount)
	assert.Len(t, result.SeatNumbers, 3)
	assert.Equal(t, "3A-1", result.SeatNumbers[0])
	assert.Equal(t, "3A-3", result.SeatNumbers[2])
	assert.Zero(t, result.WaitlistPosition)

	assert.Equal(t, 7, availableSeats(t, repo, scheduleID))
}

func TestCreateBooking_WaitlistsWhenFull(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 2, "SL", "GENERAL", 50)
	ctx := context.Background()

	_, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)

	result, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusWaitlisted, result.Booking.Status)
	assert.Equal(t, 1, result.WaitlistPosition)
	assert.Empty(t, result.SeatNumbers)
	// Fare is frozen at creation even while waitlisted.
	assert.Equal(t, 50.0, result.Booking.TotalAmount)
	// Inventory untouched by the waitlisted booking.
	assert.Equal(t, 0, availableSeats(t, repo, scheduleID))

	second, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)
	assert.Equal(t, 2, second.WaitlistPosition)
}

func TestCreateBooking_PartialPartyIsNotSplit(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 3, "SL", "GENERAL", 50)
	ctx := context.Background()

	_, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)

	// Party of 2 with only 1 seat left: the whole party waits.
	result, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusWaitlisted, result.Booking.Status)
	assert.Equal(t, 1, availableSeats(t, repo, scheduleID))
}

func TestCreateBooking_RejectsInvalidPassengerCount(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 10, "SL", "GENERAL", 50)
	ctx := context.Background()

	_, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, nil)
	assert.ErrorIs(t, err, ErrInvalidPassengerCount)

	_, err = engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(7))
	assert.ErrorIs(t, err, ErrInvalidPassengerCount)

	assert.Equal(t, 10, availableSeats(t, repo, scheduleID))
}

func TestCreateBooking_UnknownSchedule(t *testing.T) {
	_, engine := newTestEngine(t)

	_, err := engine.CreateBooking(context.Background(), uuid.New(), uuid.New(), passengers(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelBooking_ReleasesSeatsAndPromotes(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 4, "SL", "GENERAL", 100)
	ctx := context.Background()

	holder := uuid.New()
	held, err := engine.CreateBooking(ctx, holder, scheduleID, passengers(4))
	require.NoError(t, err)

	waiting, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)
	require.Equal(t, entity.BookingStatusWaitlisted, waiting.Booking.Status)

	result, err := engine.CancelBooking(ctx, held.Booking.ID, holder, false, "change of plans")
	require.NoError(t, err)

	assert.Equal(t, 4, result.SeatsFreed)
	require.Len(t, result.Promoted, 1)
	assert.Equal(t, waiting.Booking.ID, result.Promoted[0].Booking.ID)
	assert.Len(t, result.Promoted[0].SeatNumbers, 2)

	promoted, err := repo.Booking.FindByID(ctx, waiting.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, promoted.Status)

	// 4 freed, 2 taken by the promotion.
	assert.Equal(t, 2, availableSeats(t, repo, scheduleID))

	count, err := repo.Waitlist.CountBySchedule(ctx, scheduleID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCancelBooking_HeadBlocksSweep(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 4, "SL", "GENERAL", 100)
	ctx := context.Background()

	first, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)
	_, err = engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)

	// Head needs 3 seats, the entry behind it needs 1.
	bigParty, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(3))
	require.NoError(t, err)
	require.Equal(t, 1, bigParty.WaitlistPosition)
	smallParty, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)
	require.Equal(t, 2, smallParty.WaitlistPosition)

	// Freeing 2 seats fits neither promotion rule: the head's party of 3
	// does not fit, and it blocks the smaller party behind it.
	result, err := engine.CancelBooking(ctx, first.Booking.ID, first.Booking.UserID, false, "")
	require.NoError(t, err)
	assert.Empty(t, result.Promoted)
	assert.Equal(t, 2, availableSeats(t, repo, scheduleID))

	head, err := repo.Waitlist.Peek(ctx, scheduleID)
	require.NoError(t, err)
	assert.Equal(t, bigParty.Booking.ID, head.BookingID)
}

func TestCancelBooking_PromotesMultipleInOrder(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 4, "SL", "GENERAL", 100)
	ctx := context.Background()

	holder, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(4))
	require.NoError(t, err)

	w1, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)
	w2, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)

	result, err := engine.CancelBooking(ctx, holder.Booking.ID, holder.Booking.UserID, false, "")
	require.NoError(t, err)

	require.Len(t, result.Promoted, 2)
	assert.Equal(t, w1.Booking.ID, result.Promoted[0].Booking.ID)
	assert.Equal(t, w2.Booking.ID, result.Promoted[1].Booking.ID)
	assert.Equal(t, 1, availableSeats(t, repo, scheduleID))
}

func TestCancelBooking_WaitlistedFreeOfCharge(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 1, "SL", "GENERAL", 80)
	ctx := context.Background()

	_, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)

	waiting, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)
	behind, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)
	require.Equal(t, 2, behind.WaitlistPosition)

	result, err := engine.CancelBooking(ctx, waiting.Booking.ID, waiting.Booking.UserID, false, "")
	require.NoError(t, err)

	assert.Zero(t, result.Fee)
	assert.Equal(t, 80.0, result.RefundAmount)
	assert.Zero(t, result.SeatsFreed)
	assert.Empty(t, result.Promoted)

	// The entry behind moved up to close the gap.
	position, err := repo.Waitlist.PositionOf(ctx, scheduleID, behind.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, position)
}

func TestCancelBooking_TerminalIsRejected(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 5, "SL", "GENERAL", 100)
	ctx := context.Background()

	booking, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)

	_, err = engine.CancelBooking(ctx, booking.Booking.ID, booking.Booking.UserID, false, "")
	require.NoError(t, err)

	_, err = engine.CancelBooking(ctx, booking.Booking.ID, booking.Booking.UserID, false, "")
	assert.ErrorIs(t, err, ErrAlreadyTerminal)

	// No double release.
	assert.Equal(t, 5, availableSeats(t, repo, scheduleID))
}

func TestCancelBooking_OwnershipEnforced(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 5, "SL", "GENERAL", 100)
	ctx := context.Background()

	owner := uuid.New()
	booking, err := engine.CreateBooking(ctx, owner, scheduleID, passengers(1))
	require.NoError(t, err)

	_, err = engine.CancelBooking(ctx, booking.Booking.ID, uuid.New(), false, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// Admin may cancel anyone's booking.
	_, err = engine.CancelBooking(ctx, booking.Booking.ID, uuid.New(), true, "ops request")
	require.NoError(t, err)
}

func TestCancelBooking_UnknownBooking(t *testing.T) {
	_, engine := newTestEngine(t)

	_, err := engine.CancelBooking(context.Background(), uuid.New(), uuid.New(), true, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWaitlist_PremiumTierServedFirst(t *testing.T) {
	repo, engine := newTestEngine(t)
	normalSchedule := seedSchedule(t, repo, 1, "SL", "GENERAL", 100)
	ctx := context.Background()

	// Fill the schedule so everything below waitlists.
	_, err := engine.CreateBooking(ctx, uuid.New(), normalSchedule, passengers(1))
	require.NoError(t, err)

	normal, err := engine.CreateBooking(ctx, uuid.New(), normalSchedule, passengers(1))
	require.NoError(t, err)
	require.Equal(t, 1, normal.WaitlistPosition)

	// Premium entries jump ahead of normal ones but queue FIFO among
	// themselves.
	entry := &entity.WaitlistEntry{
		ID:         uuid.New(),
		ScheduleID: normalSchedule,
		BookingID:  uuid.New(),
		Tier:       entity.TierPremium,
		EnqueuedAt: time.Now(),
	}
	position, err := repo.Waitlist.Enqueue(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, 1, position)

	// The earlier normal entry shifted down, gapless.
	normalPos, err := repo.Waitlist.PositionOf(ctx, normalSchedule, normal.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, normalPos)
}

func TestTierForQuota(t *testing.T) {
	assert.Equal(t, entity.TierPremium, entity.TierForQuota("TATKAL"))
	assert.Equal(t, entity.TierPremium, entity.TierForQuota("PREMIUM"))
	assert.Equal(t, entity.TierNormal, entity.TierForQuota("GENERAL"))
	assert.Equal(t, entity.TierNormal, entity.TierForQuota(""))
}

func TestCompleteBooking_Transitions(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 2, "SL", "GENERAL", 100)
	ctx := context.Background()

	confirmed, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)

	require.NoError(t, engine.CompleteBooking(ctx, confirmed.Booking.ID))

	got, err := repo.Booking.FindByID(ctx, confirmed.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCompleted, got.Status)

	// Completed is terminal.
	err = engine.CompleteBooking(ctx, confirmed.Booking.ID)
	assert.ErrorIs(t, err, ErrAlreadyTerminal)
	_, err = engine.CancelBooking(ctx, confirmed.Booking.ID, confirmed.Booking.UserID, false, "")
	assert.ErrorIs(t, err, ErrAlreadyTerminal)

	// Waitlisted bookings cannot complete.
	waiting, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)
	require.Equal(t, entity.BookingStatusWaitlisted, waiting.Booking.Status)
	err = engine.CompleteBooking(ctx, waiting.Booking.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConcurrentCreates_NeverOversell(t *testing.T) {
	repo, engine := newTestEngine(t)
	const totalSeats = 10
	scheduleID := seedSchedule(t, repo, totalSeats, "SL", "GENERAL", 100)
	ctx := context.Background()

	const workers = 30
	var wg sync.WaitGroup
	results := make([]*BookingResult, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
			if !assert.NoError(t, err) {
				return
			}
			results[i] = result
		}(i)
	}
	wg.Wait()

	confirmedSeats := 0
	waitlisted := 0
	for _, r := range results {
		require.NotNil(t, r)
		switch r.Booking.Status {
		case entity.BookingStatusConfirmed:
			confirmedSeats += r.Booking.PassengerCount
		case entity.BookingStatusWaitlisted:
			waitlisted++
		}
	}

	available := availableSeats(t, repo, scheduleID)
	assert.LessOrEqual(t, confirmedSeats, totalSeats)
	assert.GreaterOrEqual(t, available, 0)
	// Conservation: seats held by confirmed bookings plus free seats equal
	// the pool.
	assert.Equal(t, totalSeats, confirmedSeats+available)
	assert.Equal(t, workers-confirmedSeats/2, waitlisted)

	// Waitlist positions are a gapless 1..n sequence.
	positions := make([]int, 0, waitlisted)
	for _, r := range results {
		if r.Booking.Status != entity.BookingStatusWaitlisted {
			continue
		}
		pos, err := repo.Waitlist.PositionOf(ctx, scheduleID, r.Booking.ID)
		require.NoError(t, err)
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	for i, pos := range positions {
		assert.Equal(t, i+1, pos)
	}
}

func TestConcurrentCancelAndCreate_Conserved(t *testing.T) {
	repo, engine := newTestEngine(t)
	const totalSeats = 6
	scheduleID := seedSchedule(t, repo, totalSeats, "SL", "GENERAL", 100)
	ctx := context.Background()

	var bookings []*BookingResult
	for i := 0; i < 3; i++ {
		b, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
		require.NoError(t, err)
		bookings = append(bookings, b)
	}

	var wg sync.WaitGroup
	for _, b := range bookings {
		wg.Add(1)
		go func(b *BookingResult) {
			defer wg.Done()
			_, err := engine.CancelBooking(ctx, b.Booking.ID, b.Booking.UserID, false, "")
			assert.NoError(t, err)
		}(b)
	}
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	confirmed, err := repo.Booking.FindConfirmedByScheduleID(ctx, scheduleID)
	require.NoError(t, err)
	held := 0
	for _, b := range confirmed {
		held += b.PassengerCount
	}
	assert.Equal(t, totalSeats, held+availableSeats(t, repo, scheduleID))
}

func TestCancelBooking_RecordsAuditAndCancellation(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 5, "SL", "GENERAL", 200)
	ctx := context.Background()

	booking, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)

	result, err := engine.CancelBooking(ctx, booking.Booking.ID, booking.Booking.UserID, false, "sick")
	require.NoError(t, err)

	record, err := repo.Cancellation.FindByBookingID(ctx, booking.Booking.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "sick", record.Reason)
	assert.Equal(t, result.Fee, record.Fee)
	assert.Equal(t, result.RefundAmount, record.RefundAmount)
	assert.Equal(t, 2, record.SeatsFreed)

	trail, err := repo.Audit.FindByBookingID(ctx, booking.Booking.ID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, entity.AuditActionCreated, trail[0].Action)
	assert.Equal(t, entity.AuditActionCancelled, trail[1].Action)
}

// flakyPassengerRepo fails seat assignment while fail is set.
type flakyPassengerRepo struct {
	repository.PassengerRepository
	fail bool
}

func (r *flakyPassengerRepo) AssignSeatNumbers(ctx context.Context, bookingID uuid.UUID, seatNumbers []string) error {
	if r.fail {
		return errors.New("connection reset")
	}
	return r.PassengerRepository.AssignSeatNumbers(ctx, bookingID, seatNumbers)
}

// flakyBookingRepo fails status updates while fail is set.
type flakyBookingRepo struct {
	repository.BookingRepository
	fail bool
}

func (r *flakyBookingRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	if r.fail {
		return errors.New("connection reset")
	}
	return r.BookingRepository.UpdateStatus(ctx, bookingID, status)
}

func TestPromotion_FailureLeavesHeadQueued(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 3, "SL", "GENERAL", 100)
	ctx := context.Background()

	holderA, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(2))
	require.NoError(t, err)
	holderB, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)

	waiter, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)
	require.Equal(t, entity.BookingStatusWaitlisted, waiter.Booking.Status)

	flaky := &flakyPassengerRepo{PassengerRepository: repo.Passenger, fail: true}
	repo.Passenger = flaky

	// The cancellation commits, but the promotion cannot land.
	result, err := engine.CancelBooking(ctx, holderB.Booking.ID, holderB.Booking.UserID, false, "")
	require.NoError(t, err)
	assert.Empty(t, result.Promoted)

	// The head stays queued and waitlisted; the freed seat is not leaked.
	current, err := repo.Booking.FindByID(ctx, waiter.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusWaitlisted, current.Status)
	position, err := repo.Waitlist.PositionOf(ctx, scheduleID, waiter.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, position)
	assert.Equal(t, 1, availableSeats(t, repo, scheduleID))

	// Once the fault clears, the next sweep promotes the same head.
	flaky.fail = false
	result, err = engine.CancelBooking(ctx, holderA.Booking.ID, holderA.Booking.UserID, false, "")
	require.NoError(t, err)
	require.Len(t, result.Promoted, 1)
	assert.Equal(t, waiter.Booking.ID, result.Promoted[0].Booking.ID)

	current, err = repo.Booking.FindByID(ctx, waiter.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, current.Status)
	queued, err := repo.Waitlist.CountBySchedule(ctx, scheduleID)
	require.NoError(t, err)
	assert.Zero(t, queued)
	assert.Equal(t, 2, availableSeats(t, repo, scheduleID))
}

func TestCancelWaitlisted_FailureLeavesEntryQueued(t *testing.T) {
	repo, engine := newTestEngine(t)
	scheduleID := seedSchedule(t, repo, 1, "SL", "GENERAL", 100)
	ctx := context.Background()

	_, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)
	waiter, err := engine.CreateBooking(ctx, uuid.New(), scheduleID, passengers(1))
	require.NoError(t, err)
	require.Equal(t, entity.BookingStatusWaitlisted, waiter.Booking.Status)

	flaky := &flakyBookingRepo{BookingRepository: repo.Booking, fail: true}
	repo.Booking = flaky

	_, err = engine.CancelBooking(ctx, waiter.Booking.ID, waiter.Booking.UserID, false, "")
	require.Error(t, err)

	// The failed cancellation changes nothing: still waitlisted, still queued.
	current, err := repo.Booking.FindByID(ctx, waiter.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusWaitlisted, current.Status)
	position, err := repo.Waitlist.PositionOf(ctx, scheduleID, waiter.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, position)

	// A retry after the fault clears completes the cancellation.
	flaky.fail = false
	result, err := engine.CancelBooking(ctx, waiter.Booking.ID, waiter.Booking.UserID, false, "")
	require.NoError(t, err)
	assert.Zero(t, result.SeatsFreed)
	assert.Zero(t, result.Fee)

	queued, err := repo.Waitlist.CountBySchedule(ctx, scheduleID)
	require.NoError(t, err)
	assert.Zero(t, queued)
	assert.Equal(t, 0, availableSeats(t, repo, scheduleID))
}
