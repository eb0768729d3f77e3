package domlayer

import (
	"errors"
	"testing"
)

func TestSignalOnceDeduplicates(t *testing.T) {
	var s Signal
	calls := 0
	fn := func() error { calls++; return nil }

	if !s.Once("a", fn) {
		t.Fatal("first Once should register")
	}
	if s.Once("a", fn) {
		t.Error("second Once with the same key should be rejected")
	}
	if s.Len() != 1 || !s.Pending("a") {
		t.Errorf("Len = %d, Pending = %v", s.Len(), s.Pending("a"))
	}
	if err := s.Dispatch(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if s.Pending("a") || s.Len() != 0 {
		t.Error("dispatch should clear pending handlers")
	}
	if err := s.Dispatch(); err != nil || calls != 1 {
		t.Errorf("second dispatch ran handler again (calls = %d)", calls)
	}
}

func TestSignalDispatchOrder(t *testing.T) {
	var s Signal
	var order []int
	for i := 0; i < 4; i++ {
		s.Once(i, func() error { order = append(order, i); return nil })
	}
	_ = s.Dispatch()
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want ascending", order)
		}
	}
	if len(order) != 4 {
		t.Errorf("ran %d handlers, want 4", len(order))
	}
}

func TestSignalRegisterDuringDispatch(t *testing.T) {
	var s Signal
	runs := 0
	var fn func() error
	fn = func() error {
		runs++
		s.Once("self", fn)
		return nil
	}
	s.Once("self", fn)

	_ = s.Dispatch()
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}
	if !s.Pending("self") {
		t.Fatal("handler registered during dispatch should wait for the next one")
	}
	_ = s.Dispatch()
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestSignalJoinsErrors(t *testing.T) {
	var s Signal
	errA := errors.New("a")
	errB := errors.New("b")
	ran := 0
	s.Once(1, func() error { ran++; return errA })
	s.Once(2, func() error { ran++; return nil })
	s.Once(3, func() error { ran++; return errB })

	err := s.Dispatch()
	if ran != 3 {
		t.Errorf("ran = %d, want all 3 handlers", ran)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("err = %v, want both failures", err)
	}
}

func TestSignalCancel(t *testing.T) {
	var s Signal
	ran := false
	s.Once("x", func() error { ran = true; return nil })
	s.Once("y", func() error { return nil })

	if !s.Cancel("x") {
		t.Error("Cancel should report the removed handler")
	}
	if s.Cancel("x") {
		t.Error("second Cancel should report false")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	_ = s.Dispatch()
	if ran {
		t.Error("cancelled handler ran")
	}
}

func TestSignalNilHandlerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil handler")
		}
	}()
	var s Signal
	s.Once("k", nil)
}
