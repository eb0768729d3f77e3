package domlayer

import "errors"

// Stage is the part of a scene that bridge nodes subscribe to.
type Stage interface {
	// OnDrawEnd registers fn to run once, synchronously, after the next
	// rasterization pass completes. It returns false without registering if
	// key already has a pending handler.
	OnDrawEnd(key any, fn func() error) bool
}

type signalHandler struct {
	key any
	fn  func() error
}

// Signal is a list of run-once handlers keyed by subscriber identity.
// Keys must be comparable. A zero Signal is ready to use.
type Signal struct {
	pending []signalHandler
	keys    map[any]struct{}
	spare   []signalHandler // recycled backing array from the last dispatch
}

// Once registers fn under key for the next Dispatch. Returns false if key is
// already pending; the earlier handler is kept.
func (s *Signal) Once(key any, fn func() error) bool {
	if fn == nil {
		panic("domlayer: nil signal handler")
	}
	if _, ok := s.keys[key]; ok {
		return false
	}
	if s.keys == nil {
		s.keys = make(map[any]struct{})
	}
	s.keys[key] = struct{}{}
	s.pending = append(s.pending, signalHandler{key: key, fn: fn})
	return true
}

// Pending reports whether key has a handler waiting for the next Dispatch.
func (s *Signal) Pending(key any) bool {
	_, ok := s.keys[key]
	return ok
}

// Cancel removes the pending handler for key. Returns false if there was none.
func (s *Signal) Cancel(key any) bool {
	if _, ok := s.keys[key]; !ok {
		return false
	}
	delete(s.keys, key)
	for i, h := range s.pending {
		if h.key == key {
			copy(s.pending[i:], s.pending[i+1:])
			s.pending[len(s.pending)-1] = signalHandler{}
			s.pending = s.pending[:len(s.pending)-1]
			break
		}
	}
	return true
}

// Len returns the number of pending handlers.
func (s *Signal) Len() int {
	return len(s.pending)
}

// Dispatch runs every pending handler once, in registration order, and
// clears the list. Handlers registered while dispatching wait for the next
// call. Every handler runs even if an earlier one fails; the failures are
// joined into the returned error.
func (s *Signal) Dispatch() error {
	if len(s.pending) == 0 {
		return nil
	}
	run := s.pending
	s.pending = s.spare[:0]
	s.spare = nil
	clear(s.keys)

	var errs []error
	for _, h := range run {
		if err := h.fn(); err != nil {
			errs = append(errs, err)
		}
	}

	clear(run)
	s.spare = run[:0]
	return errors.Join(errs...)
}
