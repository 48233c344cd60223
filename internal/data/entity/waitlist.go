package entity

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistTier orders queue segments: higher tiers are served first,
// FIFO by enqueue time within a tier.
type WaitlistTier int

const (
	TierNormal  WaitlistTier = 0
	TierPremium WaitlistTier = 1
)

// TierForQuota maps a schedule's quota code to its waitlist tier.
func TierForQuota(quotaCode string) WaitlistTier {
	switch quotaCode {
	case "TATKAL", "PREMIUM":
		return TierPremium
	default:
		return TierNormal
	}
}

// WaitlistEntry is one booking waiting for seats on a schedule. Position
// is 1-based and gapless across the whole queue.
type WaitlistEntry struct {
	ID         uuid.UUID    `db:"id"`
	ScheduleID uuid.UUID    `db:"schedule_id"`
	BookingID  uuid.UUID    `db:"booking_id"`
	Position   int          `db:"position"`
	Tier       WaitlistTier `db:"tier"`
	EnqueuedAt time.Time    `db:"enqueued_at"`
}
