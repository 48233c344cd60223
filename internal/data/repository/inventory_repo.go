package repository

import (
	"context"
	"fmt"

	"transit-hub/internal/data/entity"
	"transit-hub/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// InventoryRepository owns the per-schedule seat counters. TryReserve,
// Release and AllocateSeats must only be called by the reservation engine
// while it holds the schedule's lock; FindByScheduleID is a stale-tolerant
// read open to anyone.
type InventoryRepository interface {
	Create(ctx context.Context, inv *entity.ScheduleInventory) error
	FindByScheduleID(ctx context.Context, scheduleID uuid.UUID) (*entity.ScheduleInventory, error)
	TryReserve(ctx context.Context, scheduleID uuid.UUID, seats int) (bool, error)
	Release(ctx context.Context, scheduleID uuid.UUID, seats int) error
	AllocateSeats(ctx context.Context, scheduleID uuid.UUID, seats int) (int, error)
}

type inventoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewInventoryRepository(db database.PgxIface, log *zap.Logger) InventoryRepository {
	return &inventoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "inventory")),
	}
}

func (r *inventoryRepository) Create(ctx context.Context, inv *entity.ScheduleInventory) error {
	query := `
		INSERT INTO schedule_inventory (schedule_id, schedule_type, total_seats, available_seats, seat_cursor, base_fare, class_code, quota_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		inv.ScheduleID,
		inv.ScheduleType,
		inv.TotalSeats,
		inv.AvailableSeats,
		inv.SeatCursor,
		inv.BaseFare,
		inv.ClassCode,
		inv.QuotaCode,
	)

	if err != nil {
		r.log.Error("Failed to create schedule inventory",
			zap.Error(err),
			zap.String("schedule_id", inv.ScheduleID.String()),
		)
		return fmt.Errorf("create inventory for schedule %s: %w", inv.ScheduleID.String(), err)
	}

	return nil
}

func (r *inventoryRepository) FindByScheduleID(ctx context.Context, scheduleID uuid.UUID) (*entity.ScheduleInventory, error) {
	query := `
		SELECT schedule_id, schedule_type, total_seats, available_seats, seat_cursor, base_fare, class_code, quota_code
		FROM schedule_inventory
		WHERE schedule_id = $1
	`

	var inv entity.ScheduleInventory
	err := r.db.QueryRow(ctx, query, scheduleID).Scan(
		&inv.ScheduleID,
		&inv.ScheduleType,
		&inv.TotalSeats,
		&inv.AvailableSeats,
		&inv.SeatCursor,
		&inv.BaseFare,
		&inv.ClassCode,
		&inv.QuotaCode,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find schedule inventory",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return nil, fmt.Errorf("find inventory for schedule %s: %w", scheduleID.String(), err)
	}

	return &inv, nil
}

// TryReserve atomically decrements available_seats iff enough seats remain.
// Returns false with no change when capacity is insufficient.
func (r *inventoryRepository) TryReserve(ctx context.Context, scheduleID uuid.UUID, seats int) (bool, error) {
	query := `
		UPDATE schedule_inventory
		SET available_seats = available_seats - $2
		WHERE schedule_id = $1 AND available_seats >= $2
	`

	result, err := r.db.Exec(ctx, query, scheduleID, seats)
	if err != nil {
		r.log.Error("Failed to reserve seats",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Int("seats", seats),
		)
		return false, fmt.Errorf("reserve %d seats on schedule %s: %w", seats, scheduleID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

// Release atomically increments available_seats. A release that would
// exceed total_seats is refused and reported as a consistency violation.
func (r *inventoryRepository) Release(ctx context.Context, scheduleID uuid.UUID, seats int) error {
	query := `
		UPDATE schedule_inventory
		SET available_seats = available_seats + $2
		WHERE schedule_id = $1 AND available_seats + $2 <= total_seats
	`

	result, err := r.db.Exec(ctx, query, scheduleID, seats)
	if err != nil {
		r.log.Error("Failed to release seats",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Int("seats", seats),
		)
		return fmt.Errorf("release %d seats on schedule %s: %w", seats, scheduleID.String(), err)
	}

	if result.RowsAffected() == 0 {
		r.log.Error("Seat release would exceed total seats",
			zap.String("schedule_id", scheduleID.String()),
			zap.Int("seats", seats),
		)
		return fmt.Errorf("release %d seats on schedule %s: %w", seats, scheduleID.String(), ErrConsistencyViolation)
	}

	return nil
}

// AllocateSeats advances the seat cursor by the requested count and returns
// the first seat index of the allocated run. The cursor never moves back,
// so seat numbers are unique per schedule.
func (r *inventoryRepository) AllocateSeats(ctx context.Context, scheduleID uuid.UUID, seats int) (int, error) {
	query := `
		UPDATE schedule_inventory
		SET seat_cursor = seat_cursor + $2
		WHERE schedule_id = $1
		RETURNING seat_cursor
	`

	var cursor int
	err := r.db.QueryRow(ctx, query, scheduleID, seats).Scan(&cursor)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("allocate seats: schedule %s not found", scheduleID.String())
	}
	if err != nil {
		r.log.Error("Failed to allocate seat numbers",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.Int("seats", seats),
		)
		return 0, fmt.Errorf("allocate %d seats on schedule %s: %w", seats, scheduleID.String(), err)
	}

	return cursor - seats + 1, nil
}
