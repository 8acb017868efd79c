package emitter

import (
	"sync/atomic"
)

// subscription is one registry entry and, through the contracts
// interface, the handle returned to the subscriber. invoke is what an
// emission calls (for Once entries the one-shot adapter), source is
// what the caller registered and what hooks report, key is the
// identity used for duplicate detection and Off.
type subscription struct {
	id     string
	event  string
	invoke Listener
	source Listener
	key    uintptr
	active atomic.Bool
	owner  *emitter
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Event() string {
	return s.event
}

// Unsubscribe removes the entry this handle was created for. It is
// single-use: the first successful call returns true, every later call
// returns false, and a listener re-added after removal is never
// touched.
func (s *subscription) Unsubscribe() bool {
	return s.release()
}

// release claims the entry's one-shot gate and, on winning, removes it
// from the registry. Off and the Once adapter share this gate with the
// handle, so exactly one of them ever wins.
func (s *subscription) release() bool {
	if !s.active.CompareAndSwap(true, false) {
		return false
	}
	s.owner.discard(s)
	return true
}
