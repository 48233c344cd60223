package entity

import (
	"github.com/google/uuid"
)

// Cancellation records the outcome of a cancelled booking for audit and
// refund tracking. RefundAmount is TotalAmount minus the cancellation fee
// computed at cancellation time.
type Cancellation struct {
	BaseSimple
	BookingID    uuid.UUID `db:"booking_id"`
	CancelledBy  string    `db:"cancelled_by"`
	Reason       string    `db:"reason"`
	Fee          float64   `db:"fee"`
	RefundAmount float64   `db:"refund_amount"`
	SeatsFreed   int       `db:"seats_freed"`
}

// BookingAudit is an append-only trail of booking state changes.
type BookingAudit struct {
	BaseSimple
	BookingID uuid.UUID `db:"booking_id"`
	Action    string    `db:"action"`
	ActionBy  string    `db:"action_by"`
	Details   string    `db:"details"`
}

const (
	AuditActionCreated    = "created"
	AuditActionWaitlisted = "waitlisted"
	AuditActionPromoted   = "promoted"
	AuditActionCancelled  = "cancelled"
	AuditActionCompleted  = "completed"
)
