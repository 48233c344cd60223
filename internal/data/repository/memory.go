package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"transit-hub/internal/data/entity"

	"github.com/google/uuid"
)

// memoryStore is a map-backed implementation of every repository interface.
// It mirrors the Postgres semantics exactly (conditional reserve/release,
// gapless waitlist positions) and backs the engine and service tests. It
// holds no station or carrier master data, so the search queries that join
// on it return empty results; anything needing search needs the relational
// backend. All methods copy on the way in and out so callers never alias
// internal state.
type memoryStore struct {
	mu sync.RWMutex

	users       map[uuid.UUID]entity.User
	schedules   map[uuid.UUID]entity.Schedule
	inventories map[uuid.UUID]entity.ScheduleInventory
	waitlists   map[uuid.UUID][]entity.WaitlistEntry
	bookings    map[uuid.UUID]entity.Booking
	passengers  map[uuid.UUID][]entity.Passenger
	cancels     map[uuid.UUID]entity.Cancellation
	audits      map[uuid.UUID][]entity.BookingAudit
	payments    map[uuid.UUID][]entity.Payment
}

// NewMemoryRepository returns a Repository aggregate backed by process
// memory. Intended for tests.
func NewMemoryRepository() *Repository {
	s := &memoryStore{
		users:       make(map[uuid.UUID]entity.User),
		schedules:   make(map[uuid.UUID]entity.Schedule),
		inventories: make(map[uuid.UUID]entity.ScheduleInventory),
		waitlists:   make(map[uuid.UUID][]entity.WaitlistEntry),
		bookings:    make(map[uuid.UUID]entity.Booking),
		passengers:  make(map[uuid.UUID][]entity.Passenger),
		cancels:     make(map[uuid.UUID]entity.Cancellation),
		audits:      make(map[uuid.UUID][]entity.BookingAudit),
		payments:    make(map[uuid.UUID][]entity.Payment),
	}
	return &Repository{
		User:         (*memoryUserRepo)(s),
		Schedule:     (*memoryScheduleRepo)(s),
		Inventory:    (*memoryInventoryRepo)(s),
		Waitlist:     (*memoryWaitlistRepo)(s),
		Booking:      (*memoryBookingRepo)(s),
		Passenger:    (*memoryPassengerRepo)(s),
		Cancellation: (*memoryCancellationRepo)(s),
		Audit:        (*memoryAuditRepo)(s),
		Payment:      (*memoryPaymentRepo)(s),
	}
}

// ---------- users ----------

type memoryUserRepo memoryStore

func (s *memoryUserRepo) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user %s: email already registered", user.Email)
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, nil
}

func (s *memoryUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

// ---------- schedules ----------

type memoryScheduleRepo memoryStore

func (s *memoryScheduleRepo) Create(_ context.Context, sched *entity.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[sched.ID]; ok {
		return fmt.Errorf("create schedule %s: already exists", sched.ID.String())
	}
	s.schedules[sched.ID] = *sched
	return nil
}

func (s *memoryScheduleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sched, ok := s.schedules[id]; ok {
		out := sched
		return &out, nil
	}
	return nil, nil
}

// Search joins on station and carrier master data the memory store does
// not hold, so both variants report no matches.
func (s *memoryScheduleRepo) SearchTrains(ctx context.Context, sourceCode, destCode string, travelDate time.Time) ([]*ScheduleSearchRow, error) {
	return nil, nil
}

func (s *memoryScheduleRepo) SearchFlights(ctx context.Context, sourceCode, destCode string, travelDate time.Time) ([]*ScheduleSearchRow, error) {
	return nil, nil
}

// ---------- inventory ----------

type memoryInventoryRepo memoryStore

func (s *memoryInventoryRepo) Create(_ context.Context, inv *entity.ScheduleInventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inventories[inv.ScheduleID]; ok {
		return fmt.Errorf("create inventory for schedule %s: already exists", inv.ScheduleID.String())
	}
	s.inventories[inv.ScheduleID] = *inv
	return nil
}

func (s *memoryInventoryRepo) FindByScheduleID(_ context.Context, scheduleID uuid.UUID) (*entity.ScheduleInventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if inv, ok := s.inventories[scheduleID]; ok {
		out := inv
		return &out, nil
	}
	return nil, nil
}

func (s *memoryInventoryRepo) TryReserve(_ context.Context, scheduleID uuid.UUID, seats int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventories[scheduleID]
	if !ok {
		return false, fmt.Errorf("reserve %d seats on schedule %s: inventory not found", seats, scheduleID.String())
	}
	if inv.AvailableSeats < seats {
		return false, nil
	}
	inv.AvailableSeats -= seats
	s.inventories[scheduleID] = inv
	return true, nil
}

func (s *memoryInventoryRepo) Release(_ context.Context, scheduleID uuid.UUID, seats int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventories[scheduleID]
	if !ok {
		return fmt.Errorf("release %d seats on schedule %s: inventory not found", seats, scheduleID.String())
	}
	if inv.AvailableSeats+seats > inv.TotalSeats {
		return fmt.Errorf("release %d seats on schedule %s: %w", seats, scheduleID.String(), ErrConsistencyViolation)
	}
	inv.AvailableSeats += seats
	s.inventories[scheduleID] = inv
	return nil
}

func (s *memoryInventoryRepo) AllocateSeats(_ context.Context, scheduleID uuid.UUID, seats int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.inventories[scheduleID]
	if !ok {
		return 0, fmt.Errorf("allocate seats: schedule %s not found", scheduleID.String())
	}
	first := inv.SeatCursor + 1
	inv.SeatCursor += seats
	s.inventories[scheduleID] = inv
	return first, nil
}

// ---------- waitlist ----------

type memoryWaitlistRepo memoryStore

func (s *memoryWaitlistRepo) Enqueue(_ context.Context, e *entity.WaitlistEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.waitlists[e.ScheduleID]

	// Insert behind every entry of equal or higher tier.
	idx := 0
	for idx < len(queue) && queue[idx].Tier >= e.Tier {
		idx++
	}

	entry := *e
	queue = append(queue, entity.WaitlistEntry{})
	copy(queue[idx+1:], queue[idx:])
	queue[idx] = entry

	for i := range queue {
		queue[i].Position = i + 1
	}
	s.waitlists[e.ScheduleID] = queue

	e.Position = idx + 1
	return e.Position, nil
}

func (s *memoryWaitlistRepo) Peek(_ context.Context, scheduleID uuid.UUID) (*entity.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	queue := s.waitlists[scheduleID]
	if len(queue) == 0 {
		return nil, nil
	}
	out := queue[0]
	return &out, nil
}

func (s *memoryWaitlistRepo) Dequeue(_ context.Context, scheduleID uuid.UUID) (*entity.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.waitlists[scheduleID]
	if len(queue) == 0 {
		return nil, nil
	}
	out := queue[0]
	queue = queue[1:]
	for i := range queue {
		queue[i].Position = i + 1
	}
	s.waitlists[scheduleID] = queue
	return &out, nil
}

func (s *memoryWaitlistRepo) Remove(_ context.Context, scheduleID, bookingID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.waitlists[scheduleID]
	for i, e := range queue {
		if e.BookingID == bookingID {
			queue = append(queue[:i], queue[i+1:]...)
			for j := range queue {
				queue[j].Position = j + 1
			}
			s.waitlists[scheduleID] = queue
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryWaitlistRepo) PositionOf(_ context.Context, scheduleID, bookingID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.waitlists[scheduleID] {
		if e.BookingID == bookingID {
			return e.Position, nil
		}
	}
	return 0, nil
}

func (s *memoryWaitlistRepo) CountBySchedule(_ context.Context, scheduleID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.waitlists[scheduleID]), nil
}

// ---------- bookings ----------

type memoryBookingRepo memoryStore

func (s *memoryBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[booking.ID]; ok {
		return fmt.Errorf("create booking %s: already exists", booking.Reference)
	}
	s.bookings[booking.ID] = *booking
	return nil
}

func (s *memoryBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.bookings[id]; ok {
		out := b
		return &out, nil
	}
	return nil, nil
}

func (s *memoryBookingRepo) FindByReference(_ context.Context, reference string) (*entity.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.Reference == reference {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memoryBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, bookingType, status string, limit, offset int) ([]*entity.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []entity.Booking
	for _, b := range s.bookings {
		if b.UserID != userID {
			continue
		}
		if bookingType != "" && string(b.Type) != bookingType {
			continue
		}
		if status != "" && string(b.Status) != status {
			continue
		}
		matched = append(matched, b)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]*entity.Booking, len(matched))
	for i := range matched {
		b := matched[i]
		out[i] = &b
	}
	return out, nil
}

func (s *memoryBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID, bookingType, status string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, b := range s.bookings {
		if b.UserID != userID {
			continue
		}
		if bookingType != "" && string(b.Type) != bookingType {
			continue
		}
		if status != "" && string(b.Status) != status {
			continue
		}
		count++
	}
	return count, nil
}

func (s *memoryBookingRepo) FindConfirmedByScheduleID(_ context.Context, scheduleID uuid.UUID) ([]*entity.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []entity.Booking
	for _, b := range s.bookings {
		if b.ScheduleID == scheduleID && b.Status == entity.BookingStatusConfirmed {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	out := make([]*entity.Booking, len(matched))
	for i := range matched {
		b := matched[i]
		out[i] = &b
	}
	return out, nil
}

func (s *memoryBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	s.bookings[bookingID] = b
	return nil
}

func (s *memoryBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return fmt.Errorf("booking %s not found", id.String())
	}
	delete(s.bookings, id)
	return nil
}

// ---------- passengers ----------

type memoryPassengerRepo memoryStore

func (s *memoryPassengerRepo) CreateBatch(_ context.Context, passengers []*entity.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bookingID := passengers[0].BookingID
	for _, p := range passengers {
		s.passengers[bookingID] = append(s.passengers[bookingID], *p)
	}
	return nil
}

func (s *memoryPassengerRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.passengers[bookingID]
	out := make([]*entity.Passenger, len(list))
	for i := range list {
		p := list[i]
		out[i] = &p
	}
	return out, nil
}

func (s *memoryPassengerRepo) AssignSeatNumbers(_ context.Context, bookingID uuid.UUID, seatNumbers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.passengers[bookingID]
	if len(list) != len(seatNumbers) {
		return fmt.Errorf("assign seats booking %s: %d passengers, %d seats", bookingID.String(), len(list), len(seatNumbers))
	}
	for i := range list {
		seat := seatNumbers[i]
		list[i].SeatNumber = &seat
	}
	s.passengers[bookingID] = list
	return nil
}

func (s *memoryPassengerRepo) DeleteByBookingID(_ context.Context, bookingID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.passengers, bookingID)
	return nil
}

// ---------- cancellations ----------

type memoryCancellationRepo memoryStore

func (s *memoryCancellationRepo) Create(_ context.Context, c *entity.Cancellation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels[c.BookingID] = *c
	return nil
}

func (s *memoryCancellationRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Cancellation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.cancels[bookingID]; ok {
		out := c
		return &out, nil
	}
	return nil, nil
}

// ---------- audit ----------

type memoryAuditRepo memoryStore

func (s *memoryAuditRepo) Create(_ context.Context, a *entity.BookingAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits[a.BookingID] = append(s.audits[a.BookingID], *a)
	return nil
}

func (s *memoryAuditRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.BookingAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.audits[bookingID]
	out := make([]*entity.BookingAudit, len(list))
	for i := range list {
		a := list[i]
		out[i] = &a
	}
	return out, nil
}

// ---------- payments ----------

type memoryPaymentRepo memoryStore

func (s *memoryPaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.BookingID] = append(s.payments[payment.BookingID], *payment)
	return nil
}

func (s *memoryPaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.payments[bookingID]
	out := make([]*entity.Payment, len(list))
	for i := range list {
		p := list[i]
		out[i] = &p
	}
	return out, nil
}

func (s *memoryPaymentRepo) UpdateStatus(_ context.Context, paymentID uuid.UUID, status entity.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for bookingID, list := range s.payments {
		for i := range list {
			if list[i].ID == paymentID {
				list[i].Status = status
				list[i].UpdatedAt = time.Now()
				s.payments[bookingID] = list
				return nil
			}
		}
	}
	return fmt.Errorf("payment %s not found", paymentID.String())
}
