package tape

import "testing"

func TestIncDecUndo(t *testing.T) {
	tp := New(16, 4)
	head := tp.Head()
	tp.Inc()
	tp.Inc()
	tp.Dec()
	if got := tp.Val(); got != 1 {
		t.Fatalf("Val() = %d, want 1", got)
	}
	tp.Undo(3)
	if got := tp.Val(); got != 0 {
		t.Fatalf("after undo, Val() = %d, want 0", got)
	}
	if tp.Head() != head {
		t.Fatalf("Head() = %d, want %d", tp.Head(), head)
	}
}

func TestShiftUndo(t *testing.T) {
	tp := New(16, 4)
	start := tp.Head()
	if ok := tp.ShR(); !ok {
		t.Fatal("ShR() = false, want true")
	}
	if ok := tp.ShL(); !ok {
		t.Fatal("ShL() = false, want true")
	}
	if ok := tp.ShL(); !ok {
		t.Fatal("ShL() = false, want true")
	}
	if got := tp.Head(); got != start-1 {
		t.Fatalf("Head() = %d, want %d", got, start-1)
	}
	tp.Undo(3)
	if tp.Head() != start {
		t.Fatalf("after undo, Head() = %d, want %d", tp.Head(), start)
	}
}

func TestShiftHardLimit(t *testing.T) {
	tp := New(2, 4) // head starts at index 1
	if ok := tp.ShR(); ok {
		t.Fatal("ShR() at the hard upper limit should return false")
	}
	if ok := tp.ShL(); !ok {
		t.Fatal("ShL() should succeed, moving to index 0")
	}
	if ok := tp.ShL(); ok {
		t.Fatal("ShL() at the hard lower limit should return false")
	}
}

func TestEffectiveHangDetection(t *testing.T) {
	tp := New(16, 4)
	// Inc then Dec cancels on the effective-op stack: no net effective
	// change survives, so Hang-1 should fire.
	tp.Inc()
	tp.Dec()
	if !tp.HangDetected() {
		t.Fatal("HangDetected() = false after a fully-cancelling Inc/Dec pair, want true")
	}
}

func TestEffectiveNoHangAfterNetChange(t *testing.T) {
	tp := New(16, 4)
	tp.Inc()
	tp.Inc()
	if tp.HangDetected() {
		t.Fatal("HangDetected() = true after two Incs with no cancellation, want false")
	}
}
