// Package tape implements the data tape (component B), its undo log, and
// the two sample-period-local hang detectors that ride along on every
// mutation: the effective-op tracker (Hang-1, component C) and the delta
// tracker (Hang-2, component D). See spec.md §4.2-§4.4.
package tape

// UndoOp tags one atom of the undo log.
type UndoOp uint8

const (
	Inc UndoOp = iota
	Dec
	ShR
	ShL
)

// Tape is a fixed-size signed-integer array with a head pointer and an
// append-only undo log, per spec.md §3 "Data tape" / "Undo log".
type Tape struct {
	data []int32
	head int
	size int

	// Lifetime bounds: the inclusive range of cells whose value has ever
	// been non-zero or on which the head has ever stood, capped at the
	// hard tape limits [0, size-1].
	minBound, maxBound int

	// Cells visited since the last ResetVisitedBounds call (used by the
	// data tracker, component F, to scope its snapshot diffs).
	minVisited, maxVisited int

	undo []UndoOp

	effective EffectiveTracker
	delta     DeltaTracker
}

// New allocates a tape of the given size with the head at its center, and a
// delta tracker sized for the given hang-detection sample period.
func New(size, samplePeriod int) *Tape {
	t := &Tape{
		data: make([]int32, size),
		head: size / 2,
		size: size,
	}
	t.minBound, t.maxBound = t.head, t.head
	t.minVisited, t.maxVisited = t.head, t.head
	t.effective.reset()
	t.delta.init(samplePeriod)
	t.delta.reset(t.head)
	return t
}

func (t *Tape) Size() int        { return t.size }
func (t *Tape) Head() int        { return t.head }
func (t *Tape) Val() int         { return int(t.data[t.head]) }
func (t *Tape) ValAt(i int) int  { return int(t.data[i]) }
func (t *Tape) MinBound() int    { return t.minBound }
func (t *Tape) MaxBound() int    { return t.maxBound }
func (t *Tape) MinVisited() int  { return t.minVisited }
func (t *Tape) MaxVisited() int  { return t.maxVisited }
func (t *Tape) UndoLen() int     { return len(t.undo) }

// Buffer exposes the raw backing array for the snapshot component (F). The
// caller must not mutate it.
func (t *Tape) Buffer() []int32 { return t.data }

func (t *Tape) expandBoundsTo(pos int) {
	if pos < t.minBound {
		t.minBound = pos
	}
	if pos > t.maxBound {
		t.maxBound = pos
	}
	if pos < t.minVisited {
		t.minVisited = pos
	}
	if pos > t.maxVisited {
		t.maxVisited = pos
	}
}

// ResetVisitedBounds collapses the visited range back to the single current
// head cell. Invoked by the data tracker right after it captures a
// snapshot (spec.md §4.6 captureSnapshot step 4).
func (t *Tape) ResetVisitedBounds() {
	t.minVisited, t.maxVisited = t.head, t.head
}

// Inc increments the current cell and records the undo atom.
func (t *Tape) Inc() {
	t.data[t.head]++
	t.undo = append(t.undo, Inc)
	t.effective.record(Inc)
	t.delta.onValueChange(t, 1)
}

// Dec decrements the current cell and records the undo atom.
func (t *Tape) Dec() {
	t.data[t.head]--
	t.undo = append(t.undo, Dec)
	t.effective.record(Dec)
	t.delta.onValueChange(t, -1)
}

// ShR moves the head right. It returns false (a DataError per spec.md §7)
// if doing so would leave the hard tape limits.
func (t *Tape) ShR() bool {
	if t.head+1 >= t.size {
		return false
	}
	t.head++
	t.undo = append(t.undo, ShR)
	t.effective.record(ShR)
	t.expandBoundsTo(t.head)
	t.delta.onShift(1)
	return true
}

// ShL moves the head left. It returns false (a DataError) if doing so would
// leave the hard tape limits.
func (t *Tape) ShL() bool {
	if t.head-1 < 0 {
		return false
	}
	t.head--
	t.undo = append(t.undo, ShL)
	t.effective.record(ShL)
	t.expandBoundsTo(t.head)
	t.delta.onShift(-1)
	return true
}

// Undo replays the last n atoms inverted, restoring (head, cell values) to
// their state n atoms ago. It does not shrink minBound/maxBound/minVisited/
// maxVisited, matching the C++ original (those trackers are reset
// explicitly by their owners, not by Undo).
func (t *Tape) Undo(n int) {
	for i := 0; i < n; i++ {
		last := len(t.undo) - 1
		op := t.undo[last]
		t.undo = t.undo[:last]
		switch op {
		case Inc:
			t.data[t.head]--
		case Dec:
			t.data[t.head]++
		case ShR:
			t.head--
		case ShL:
			t.head++
		}
	}
}

// ResetHangDetection clears the per-sample-period state of both Hang-1 and
// Hang-2. Invoked by the executor at every sample boundary (spec.md §4.8
// step 4) after the previous period's detectors have been consulted.
func (t *Tape) ResetHangDetection() {
	t.effective.reset()
	t.delta.reset(t.head)
}

// HangDetected runs both sample-period-local detectors (Hang-1 then Hang-2)
// and reports a hang if either fires. Per the spec's open question in §9,
// they run together, not as alternatives.
func (t *Tape) HangDetected() bool {
	if t.effective.hanging() {
		return true
	}
	return t.delta.hanging(t)
}

// DumpStack renders the undo log as a compact string, for debugging.
func (t *Tape) DumpStack() string {
	chars := [...]byte{'+', '-', '>', '<'}
	out := make([]byte, len(t.undo))
	for i, op := range t.undo {
		out[i] = chars[op]
	}
	return string(out)
}
