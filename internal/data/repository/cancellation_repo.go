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

type CancellationRepository interface {
	Create(ctx context.Context, c *entity.Cancellation) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Cancellation, error)
}

type cancellationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCancellationRepository(db database.PgxIface, log *zap.Logger) CancellationRepository {
	return &cancellationRepository{
		db:  db,
		log: log.With(zap.String("repository", "cancellation")),
	}
}

func (r *cancellationRepository) Create(ctx context.Context, c *entity.Cancellation) error {
	query := `
		INSERT INTO cancellations (id, booking_id, cancelled_by, reason, fee, refund_amount, seats_freed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.BookingID,
		c.CancelledBy,
		c.Reason,
		c.Fee,
		c.RefundAmount,
		c.SeatsFreed,
		c.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create cancellation record",
			zap.Error(err),
			zap.String("booking_id", c.BookingID.String()),
		)
		return fmt.Errorf("create cancellation for booking %s: %w", c.BookingID.String(), err)
	}

	return nil
}

func (r *cancellationRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Cancellation, error) {
	query := `
		SELECT id, booking_id, cancelled_by, reason, fee, refund_amount, seats_freed, created_at
		FROM cancellations
		WHERE booking_id = $1
	`

	var c entity.Cancellation
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&c.ID,
		&c.BookingID,
		&c.CancelledBy,
		&c.Reason,
		&c.Fee,
		&c.RefundAmount,
		&c.SeatsFreed,
		&c.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cancellation",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find cancellation for booking %s: %w", bookingID.String(), err)
	}

	return &c, nil
}
