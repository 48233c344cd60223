package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBookingReference(t *testing.T) {
	today := time.Now().Format("20060102")

	train := GenerateBookingReference("train")
	assert.Regexp(t, regexp.MustCompile(`^TRN-`+today+`-\d{6}$`), train)

	flight := GenerateBookingReference("flight")
	assert.Regexp(t, regexp.MustCompile(`^FLT-`+today+`-\d{6}$`), flight)
}

func TestSeatNumber(t *testing.T) {
	assert.Equal(t, "3A-14", SeatNumber("3A", 14))
	assert.Equal(t, "SL-1", SeatNumber("SL", 1))
}

func TestGenerateTransactionRef(t *testing.T) {
	ref := GenerateTransactionRef()
	assert.Regexp(t, regexp.MustCompile(`^TXN-\d{14}-\d{4}$`), ref)
}
