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

// WaitlistRepository keeps per-schedule queues ordered by (tier desc,
// enqueued_at asc) with stored positions forming a gapless 1-based
// sequence. Mutations run only under the schedule's engine lock; reads
// such as PositionOf may run lock-free and tolerate staleness.
type WaitlistRepository interface {
	Enqueue(ctx context.Context, e *entity.WaitlistEntry) (int, error)
	Peek(ctx context.Context, scheduleID uuid.UUID) (*entity.WaitlistEntry, error)
	Dequeue(ctx context.Context, scheduleID uuid.UUID) (*entity.WaitlistEntry, error)
	Remove(ctx context.Context, scheduleID, bookingID uuid.UUID) (bool, error)
	PositionOf(ctx context.Context, scheduleID, bookingID uuid.UUID) (int, error)
	CountBySchedule(ctx context.Context, scheduleID uuid.UUID) (int, error)
}

type waitlistRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWaitlistRepository(db database.PgxIface, log *zap.Logger) WaitlistRepository {
	return &waitlistRepository{
		db:  db,
		log: log.With(zap.String("repository", "waitlist")),
	}
}

const waitlistColumns = `id, schedule_id, booking_id, position, tier, enqueued_at`

func scanWaitlistEntry(row pgx.Row) (*entity.WaitlistEntry, error) {
	var e entity.WaitlistEntry
	err := row.Scan(&e.ID, &e.ScheduleID, &e.BookingID, &e.Position, &e.Tier, &e.EnqueuedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Enqueue inserts at the tail of the entry's tier segment: behind every
// entry of an equal or higher tier, ahead of every lower-tier entry.
// Lower-tier entries shift down one position to keep the sequence gapless.
func (r *waitlistRepository) Enqueue(ctx context.Context, e *entity.WaitlistEntry) (int, error) {
	countQuery := `
		SELECT COUNT(*) FROM waitlist_entries
		WHERE schedule_id = $1 AND tier >= $2
	`

	var ahead int
	if err := r.db.QueryRow(ctx, countQuery, e.ScheduleID, e.Tier).Scan(&ahead); err != nil {
		r.log.Error("Failed to count waitlist segment",
			zap.Error(err),
			zap.String("schedule_id", e.ScheduleID.String()),
		)
		return 0, fmt.Errorf("count waitlist segment for schedule %s: %w", e.ScheduleID.String(), err)
	}

	position := ahead + 1

	shiftQuery := `
		UPDATE waitlist_entries SET position = position + 1
		WHERE schedule_id = $1 AND position >= $2
	`
	if _, err := r.db.Exec(ctx, shiftQuery, e.ScheduleID, position); err != nil {
		r.log.Error("Failed to shift waitlist positions",
			zap.Error(err),
			zap.String("schedule_id", e.ScheduleID.String()),
		)
		return 0, fmt.Errorf("shift waitlist for schedule %s: %w", e.ScheduleID.String(), err)
	}

	insertQuery := `
		INSERT INTO waitlist_entries (id, schedule_id, booking_id, position, tier, enqueued_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.Exec(ctx, insertQuery, e.ID, e.ScheduleID, e.BookingID, position, e.Tier, e.EnqueuedAt); err != nil {
		r.log.Error("Failed to enqueue waitlist entry",
			zap.Error(err),
			zap.String("schedule_id", e.ScheduleID.String()),
			zap.String("booking_id", e.BookingID.String()),
		)
		return 0, fmt.Errorf("enqueue booking %s on schedule %s: %w", e.BookingID.String(), e.ScheduleID.String(), err)
	}

	e.Position = position
	return position, nil
}

func (r *waitlistRepository) Peek(ctx context.Context, scheduleID uuid.UUID) (*entity.WaitlistEntry, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries WHERE schedule_id = $1 AND position = 1`

	entry, err := scanWaitlistEntry(r.db.QueryRow(ctx, query, scheduleID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to peek waitlist",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return nil, fmt.Errorf("peek waitlist for schedule %s: %w", scheduleID.String(), err)
	}

	return entry, nil
}

func (r *waitlistRepository) Dequeue(ctx context.Context, scheduleID uuid.UUID) (*entity.WaitlistEntry, error) {
	entry, err := r.Peek(ctx, scheduleID)
	if err != nil || entry == nil {
		return entry, err
	}

	if err := r.deleteAndShift(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *waitlistRepository) Remove(ctx context.Context, scheduleID, bookingID uuid.UUID) (bool, error) {
	query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries WHERE schedule_id = $1 AND booking_id = $2`

	entry, err := scanWaitlistEntry(r.db.QueryRow(ctx, query, scheduleID, bookingID))
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		r.log.Error("Failed to find waitlist entry",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
			zap.String("booking_id", bookingID.String()),
		)
		return false, fmt.Errorf("find waitlist entry for booking %s: %w", bookingID.String(), err)
	}

	if err := r.deleteAndShift(ctx, entry); err != nil {
		return false, err
	}

	return true, nil
}

// deleteAndShift removes one entry and closes the gap it leaves behind.
func (r *waitlistRepository) deleteAndShift(ctx context.Context, entry *entity.WaitlistEntry) error {
	deleteQuery := `DELETE FROM waitlist_entries WHERE id = $1`
	result, err := r.db.Exec(ctx, deleteQuery, entry.ID)
	if err != nil {
		r.log.Error("Failed to delete waitlist entry",
			zap.Error(err),
			zap.String("entry_id", entry.ID.String()),
		)
		return fmt.Errorf("delete waitlist entry %s: %w", entry.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete waitlist entry %s: %w", entry.ID.String(), ErrConsistencyViolation)
	}

	shiftQuery := `
		UPDATE waitlist_entries SET position = position - 1
		WHERE schedule_id = $1 AND position > $2
	`
	if _, err := r.db.Exec(ctx, shiftQuery, entry.ScheduleID, entry.Position); err != nil {
		r.log.Error("Failed to close waitlist gap",
			zap.Error(err),
			zap.String("schedule_id", entry.ScheduleID.String()),
		)
		return fmt.Errorf("close waitlist gap on schedule %s: %w", entry.ScheduleID.String(), err)
	}

	return nil
}

func (r *waitlistRepository) PositionOf(ctx context.Context, scheduleID, bookingID uuid.UUID) (int, error) {
	query := `SELECT position FROM waitlist_entries WHERE schedule_id = $1 AND booking_id = $2`

	var position int
	err := r.db.QueryRow(ctx, query, scheduleID, bookingID).Scan(&position)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		r.log.Error("Failed to get waitlist position",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return 0, fmt.Errorf("waitlist position of booking %s: %w", bookingID.String(), err)
	}

	return position, nil
}

func (r *waitlistRepository) CountBySchedule(ctx context.Context, scheduleID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM waitlist_entries WHERE schedule_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, scheduleID).Scan(&count); err != nil {
		r.log.Error("Failed to count waitlist",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return 0, fmt.Errorf("count waitlist for schedule %s: %w", scheduleID.String(), err)
	}

	return count, nil
}
