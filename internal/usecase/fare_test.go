package usecase

import (
	"testing"
	"time"

	"transit-hub/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func TestFarePolicy_Multipliers(t *testing.T) {
	var policy FarePolicy

	tests := []struct {
		classCode string
		want      float64
	}{
		{"SL", 1.0},
		{"3A", 1.5},
		{"2A", 2.0},
		{"1A", 3.0},
		{"ECONOMY", 1.0},
		{"BUSINESS", 2.5},
		{"UNKNOWN", 1.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.Multiplier(tt.classCode), tt.classCode)
	}
}

func TestFarePolicy_FareFor(t *testing.T) {
	var policy FarePolicy

	assert.Equal(t, 600.0, policy.FareFor(100, "2A", 3))
	assert.Equal(t, 100.0, policy.FareFor(100, "SL", 1))
	assert.Equal(t, 1250.0, policy.FareFor(250, "BUSINESS", 2))
}

func TestFeePolicy_FeeFor(t *testing.T) {
	var policy FeePolicy
	now := time.Now()

	waitlisted := &entity.Booking{
		Status:      entity.BookingStatusWaitlisted,
		TotalAmount: 500,
	}
	assert.Zero(t, policy.FeeFor(waitlisted, now))

	fresh := &entity.Booking{
		Base:        entity.Base{CreatedAt: now.Add(-2 * time.Hour)},
		Status:      entity.BookingStatusConfirmed,
		TotalAmount: 500,
	}
	assert.Equal(t, 50.0, policy.FeeFor(fresh, now))

	old := &entity.Booking{
		Base:        entity.Base{CreatedAt: now.Add(-48 * time.Hour)},
		Status:      entity.BookingStatusConfirmed,
		TotalAmount: 500,
	}
	assert.Equal(t, 125.0, policy.FeeFor(old, now))
}
