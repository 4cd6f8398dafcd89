package grid

import "testing"

func TestPointerNext(t *testing.T) {
	p := Pointer{Col: 2, Row: 2, Dir: Up}
	if col, row := p.Next(); col != 2 || row != 3 {
		t.Errorf("Next() = (%d,%d), want (2,3)", col, row)
	}
}

func TestRotate(t *testing.T) {
	d := Up
	if got := d.RotateClockwise(); got != Right {
		t.Errorf("Up.RotateClockwise() = %v, want Right", got)
	}
	if got := d.RotateCounterClockwise(); got != Left {
		t.Errorf("Up.RotateCounterClockwise() = %v, want Left", got)
	}
	// A full clockwise cycle returns to the start.
	got := d
	for i := 0; i < 4; i++ {
		got = got.RotateClockwise()
	}
	if got != d {
		t.Errorf("four clockwise rotations = %v, want %v", got, d)
	}
}

func TestGridSetGetClone(t *testing.T) {
	g := New(3, 3)
	g.Set(1, 1, Turn)
	if got := g.Get(1, 1); got != Turn {
		t.Errorf("Get(1,1) = %v, want Turn", got)
	}
	if got := g.Get(0, 0); got != Unset {
		t.Errorf("Get(0,0) = %v, want Unset", got)
	}

	clone := g.Clone()
	clone.Set(1, 1, Noop)
	if got := g.Get(1, 1); got != Turn {
		t.Errorf("mutating the clone changed the original: Get(1,1) = %v, want Turn", got)
	}
}

func TestInBounds(t *testing.T) {
	g := New(4, 4)
	if g.InBounds(0, -1) {
		t.Error("sentinel row -1 must never be InBounds")
	}
	if !g.InBounds(3, 3) {
		t.Error("(3,3) should be InBounds for a 4x4 grid")
	}
	if g.InBounds(4, 0) {
		t.Error("(4,0) should be out of bounds for a 4x4 grid")
	}
}
