package irexport

import (
	"strings"
	"testing"

	"bbfinder/internal/block"
	"bbfinder/internal/grid"
)

func TestExportRejectsNilEntry(t *testing.T) {
	if _, err := Export(nil); err == nil {
		t.Fatal("Export(nil) should return an error")
	}
}

func TestExportRejectsUnfinalizedEntry(t *testing.T) {
	g := grid.New(2, 2)
	c := block.NewCompiler(g)
	if _, err := Export(c.EntryBlock()); err == nil {
		t.Fatal("Export on an unfinalized entry (Unset grid) should return an error")
	}
}

func TestExportEmitsExitFunction(t *testing.T) {
	g := grid.New(1, 1)
	g.Set(0, 0, grid.Turn)
	c := block.NewCompiler(g)
	b := c.Finalize(c.EntryBlock())
	if b == nil {
		t.Fatal("Finalize returned nil")
	}

	out, err := Export(c.EntryBlock())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(out, "define") {
		t.Fatalf("Export output has no function definition:\n%s", out)
	}
	if !strings.Contains(out, "ret void") {
		t.Fatalf("Export output has no ret for the Exit block:\n%s", out)
	}
}

// TestExportLinksBlockSuccessorAsBranch builds a two-block graph (entry
// Delta block, plus its finalized nonzero successor) and checks Export
// connects them with a branch instead of emitting disconnected functions.
func TestExportLinksBlockSuccessorAsBranch(t *testing.T) {
	g := grid.New(1, 2)
	g.Set(0, 0, grid.Data) // entered moving Up from the sentinel row: Delta, +1
	g.Set(0, 1, grid.Turn) // closes the entry block; nonzero successor heads off-grid

	c := block.NewCompiler(g)
	entry := c.Finalize(c.EntryBlock())
	if entry == nil {
		t.Fatal("Finalize(entry) returned nil")
	}
	if entry.Kind() != block.Delta || entry.ZeroSucc() != nil || entry.NonzeroSucc() == nil {
		t.Fatalf("test grid assumption broke: kind=%v zeroSucc=%v nonzeroSucc=%v, want Delta with an omitted zero successor and a present nonzero successor",
			entry.Kind(), entry.ZeroSucc(), entry.NonzeroSucc())
	}
	if c.Finalize(entry.NonzeroSucc()) == nil {
		t.Fatal("Finalize(entry.NonzeroSucc()) returned nil")
	}

	out, err := Export(c.EntryBlock())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(out, "br label") {
		t.Fatalf("Export output has no branch linking entry to its successor:\n%s", out)
	}
	if !strings.Contains(out, "ret void") {
		t.Fatalf("Export output has no ret for the successor's terminal block:\n%s", out)
	}
}
