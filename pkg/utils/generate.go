package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GenerateBookingReference creates a human-shareable booking reference.
// Format: TRN-YYYYMMDD-XXXXXX for trains, FLT-YYYYMMDD-XXXXXX for flights.
func GenerateBookingReference(bookingType string) string {
	prefix := "TRN"
	if bookingType == "flight" {
		prefix = "FLT"
	}

	datePart := time.Now().Format("20060102")
	randomPart := fmt.Sprintf("%06d", rand.Intn(1000000))

	return fmt.Sprintf("%s-%s-%s", prefix, datePart, randomPart)
}

// SeatNumber formats a seat index into the printable seat label, e.g.
// class 3A seat 14 becomes "3A-14".
func SeatNumber(classCode string, index int) string {
	return fmt.Sprintf("%s-%d", classCode, index)
}

// GenerateTransactionRef creates a reference for payment gateway calls.
func GenerateTransactionRef() string {
	return fmt.Sprintf("TXN-%s-%04d", time.Now().Format("20060102150405"), rand.Intn(10000))
}
