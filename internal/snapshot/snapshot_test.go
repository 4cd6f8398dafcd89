package snapshot

import (
	"testing"

	"bbfinder/internal/tape"
)

func TestCaptureSnapshotRotation(t *testing.T) {
	tp := tape.New(16, 4)
	tr := NewTracker(tp)

	if tr.OldSnapshot() != nil || tr.NewSnapshot() != nil {
		t.Fatal("a fresh Tracker should have no snapshots")
	}

	tr.CaptureSnapshot()
	if tr.NewSnapshot() == nil {
		t.Fatal("after one CaptureSnapshot, NewSnapshot() should be populated")
	}
	if tr.OldSnapshot() != nil {
		t.Fatal("after one CaptureSnapshot, OldSnapshot() should still be nil")
	}

	first := tr.NewSnapshot()
	tr.CaptureSnapshot()
	if tr.OldSnapshot() != first {
		t.Fatal("after the second CaptureSnapshot, the first snapshot should have rotated into OldSnapshot()")
	}
}

func TestCompareToSnapshotUnchanged(t *testing.T) {
	tp := tape.New(16, 4)
	tr := NewTracker(tp)
	tp.Inc()
	tr.CaptureSnapshot()

	if got := tr.CompareToSnapshot(); got != Unchanged {
		t.Fatalf("CompareToSnapshot() = %v, want Unchanged (no steps since capture)", got)
	}
}

func TestCompareToSnapshotImpactful(t *testing.T) {
	tp := tape.New(16, 4)
	tr := NewTracker(tp)
	tp.Dec() // value -1
	tr.CaptureSnapshot()

	tp.Inc() // -1 -> 0, moves towards zero: impactful
	if got := tr.CompareToSnapshot(); got != Impactful {
		t.Fatalf("CompareToSnapshot() = %v, want Impactful (value moved towards zero)", got)
	}
}
