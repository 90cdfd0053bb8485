// Package schedule runs deferred callbacks against a clock that only moves
// when the owner advances it. Each callback lives in a named slot, and
// scheduling a slot replaces whatever was pending there.
package schedule

import "time"

type entry struct {
	due time.Duration
	seq uint64
	fn  func()
}

// Scheduler is not safe for concurrent use; it belongs to one tick loop.
type Scheduler struct {
	now     time.Duration
	seq     uint64
	pending map[string]entry
}

// New creates a scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{pending: make(map[string]entry)}
}

// Now returns the elapsed time seen by the scheduler.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Schedule runs fn once the clock has advanced by after. Any callback
// pending in the same slot is cancelled.
func (s *Scheduler) Schedule(slot string, after time.Duration, fn func()) {
	if after < 0 {
		after = 0
	}
	s.seq++
	s.pending[slot] = entry{due: s.now + after, seq: s.seq, fn: fn}
}

// Cancel drops the callback pending in slot. Returns false if there was none.
func (s *Scheduler) Cancel(slot string) bool {
	if _, ok := s.pending[slot]; !ok {
		return false
	}
	delete(s.pending, slot)
	return true
}

// Pending reports whether slot has a callback waiting.
func (s *Scheduler) Pending(slot string) bool {
	_, ok := s.pending[slot]
	return ok
}

// Remaining returns the time until slot fires.
func (s *Scheduler) Remaining(slot string) (time.Duration, bool) {
	e, ok := s.pending[slot]
	if !ok {
		return 0, false
	}
	return e.due - s.now, true
}

// Len returns the number of pending callbacks.
func (s *Scheduler) Len() int {
	return len(s.pending)
}

// Advance moves the clock forward by dt and runs every callback that comes
// due, earliest first. Callbacks see Now() equal to their due time and may
// schedule further callbacks, which also run if they fall within dt.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt

	for {
		slot, e, ok := s.next(target)
		if !ok {
			break
		}
		delete(s.pending, slot)
		s.now = e.due
		e.fn()
	}

	s.now = target
}

func (s *Scheduler) next(limit time.Duration) (string, entry, bool) {
	var (
		bestSlot string
		best     entry
		found    bool
	)
	for slot, e := range s.pending {
		if e.due > limit {
			continue
		}
		if !found || e.due < best.due || (e.due == best.due && e.seq < best.seq) {
			bestSlot, best, found = slot, e, true
		}
	}
	return bestSlot, best, found
}
