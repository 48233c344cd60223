package repository

import "errors"

// ErrConsistencyViolation marks a storage invariant breach: a seat release
// that would push available_seats above total_seats, or waitlist position
// arithmetic detecting a gap. It indicates a bug, not user error, and must
// never be silently swallowed.
var ErrConsistencyViolation = errors.New("inventory consistency violation")
