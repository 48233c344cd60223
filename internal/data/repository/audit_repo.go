package repository

import (
	"context"
	"fmt"

	"transit-hub/internal/data/entity"
	"transit-hub/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditRepository interface {
	Create(ctx context.Context, a *entity.BookingAudit) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingAudit, error)
}

type auditRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAuditRepository(db database.PgxIface, log *zap.Logger) AuditRepository {
	return &auditRepository{
		db:  db,
		log: log.With(zap.String("repository", "audit")),
	}
}

func (r *auditRepository) Create(ctx context.Context, a *entity.BookingAudit) error {
	query := `
		INSERT INTO booking_audit (id, booking_id, action, action_by, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, a.ID, a.BookingID, a.Action, a.ActionBy, a.Details, a.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create audit record",
			zap.Error(err),
			zap.String("booking_id", a.BookingID.String()),
			zap.String("action", a.Action),
		)
		return fmt.Errorf("create audit %s for booking %s: %w", a.Action, a.BookingID.String(), err)
	}

	return nil
}

func (r *auditRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingAudit, error) {
	query := `
		SELECT id, booking_id, action, action_by, details, created_at
		FROM booking_audit
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find audit records",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find audit for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var audits []*entity.BookingAudit
	for rows.Next() {
		var a entity.BookingAudit
		if err := rows.Scan(&a.ID, &a.BookingID, &a.Action, &a.ActionBy, &a.Details, &a.CreatedAt); err != nil {
			r.log.Error("Failed to scan audit row", zap.Error(err))
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		audits = append(audits, &a)
	}

	return audits, nil
}
