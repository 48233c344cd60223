package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// scheduleLocks serializes reservation operations per schedule. Operations
// on the same schedule run one at a time; different schedules proceed in
// parallel. Locks are never evicted: one mutex per schedule ever touched
// is a bounded, tiny footprint.
type scheduleLocks struct {
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func newScheduleLocks() *scheduleLocks {
	return &scheduleLocks{}
}

// Lock acquires the mutex of the given schedule, creating it on first use.
// The returned function releases it and is safe to call more than once,
// so callers can defer it and still unlock early before post-commit work.
func (l *scheduleLocks) Lock(scheduleID uuid.UUID) func() {
	v, _ := l.locks.LoadOrStore(scheduleID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()

	var once sync.Once
	return func() {
		once.Do(mu.Unlock)
	}
}
