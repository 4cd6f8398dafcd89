package program

import (
	"testing"

	"bbfinder/internal/grid"
)

func TestRoundTrip(t *testing.T) {
	g := grid.New(4, 3)
	g.Set(0, 0, grid.Turn)
	g.Set(1, 0, grid.Data)
	g.Set(2, 0, grid.Noop)
	g.Set(3, 2, grid.Turn)

	text := ToString(g)
	got, err := FromString(text)
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}

	if got.Width() != g.Width() || got.Height() != g.Height() {
		t.Fatalf("dimensions = %dx%d, want %dx%d", got.Width(), got.Height(), g.Width(), g.Height())
	}
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			if got.Get(col, row) != g.Get(col, row) {
				t.Errorf("cell (%d,%d) = %v, want %v", col, row, got.Get(col, row), g.Get(col, row))
			}
		}
	}
}

func TestFromStringRejectsGarbage(t *testing.T) {
	if _, err := FromString("not valid base64!!"); err == nil {
		t.Fatal("FromString on invalid base64 should return an error")
	}
}

// TestFromStringLiteralVectors pins spec.md §8 scenario 1's literal
// encoding round-trip, plus a couple of the original's own encoding
// fixtures, so a future change to the bit layout gets caught immediately.
func TestFromStringLiteralVectors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		plain string
	}{
		{"2x2 all turn", "Iqo", "****"},
		{"2x2 all data", "IlU", "oooo"},
		{"5x3 turn border", "U6qgKqg", "******___******"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromString(tt.text)
			if err != nil {
				t.Fatalf("FromString(%q): %v", tt.text, err)
			}
			if got := ToPlainString(g); got != tt.plain {
				t.Errorf("ToPlainString() = %q, want %q", got, tt.plain)
			}
			if got := ToString(g); got != tt.text {
				t.Errorf("ToString() = %q, want %q", got, tt.text)
			}
		})
	}
}
