package exec

import (
	"testing"

	"bbfinder/internal/block"
	"bbfinder/internal/grid"
	"bbfinder/internal/tape"
)

func TestStepperExitsOffGrid(t *testing.T) {
	g := grid.New(1, 1)
	g.Set(0, 0, grid.Turn)
	tp := tape.New(16, 4)
	st := NewStepper(g, tp)

	if got := st.Step(); got != Exited {
		t.Fatalf("Step() = %v, want Exited", got)
	}
	if st.Steps() != 1 {
		t.Fatalf("Steps() = %d, want 1", st.Steps())
	}
}

func TestStepperNeedsCell(t *testing.T) {
	g := grid.New(2, 2)
	tp := tape.New(16, 4)
	st := NewStepper(g, tp)

	if got := st.Step(); got != NeedCell {
		t.Fatalf("Step() = %v, want NeedCell", got)
	}
	if st.NeedCol != 0 || st.NeedRow != 0 {
		t.Fatalf("NeedCol/NeedRow = (%d,%d), want (0,0)", st.NeedCol, st.NeedRow)
	}
}

func TestStepperDataIncrementsTape(t *testing.T) {
	g := grid.New(1, 2)
	g.Set(0, 0, grid.Data) // entered traveling Up -> Inc
	g.Set(0, 1, grid.Turn)
	tp := tape.New(16, 4)
	st := NewStepper(g, tp)

	if got := st.Step(); got != Running {
		t.Fatalf("Step() = %v, want Running", got)
	}
	if tp.Val() != 1 {
		t.Fatalf("tape value after one Up Data cell = %d, want 1", tp.Val())
	}
}

func TestStepperSaveRestore(t *testing.T) {
	g := grid.New(1, 2)
	g.Set(0, 0, grid.Noop)
	g.Set(0, 1, grid.Turn)
	tp := tape.New(16, 4)
	st := NewStepper(g, tp)

	pp, steps := st.Save()
	st.Step()
	if st.Steps() == steps {
		t.Fatal("expected Steps() to change after Step()")
	}
	st.Restore(pp, steps)
	if st.Steps() != steps || st.Pointer() != pp {
		t.Fatal("Restore() did not revert Stepper to its saved state")
	}
}

func TestBlockStepperReplaysExit(t *testing.T) {
	g := grid.New(1, 1)
	g.Set(0, 0, grid.Turn)
	tp := tape.New(16, 4)
	c := block.NewCompiler(g)
	bs := NewBlockStepper(c, tp)

	if got := bs.Step(); got != BlockExited {
		t.Fatalf("Step() = %v, want BlockExited", got)
	}
	if bs.Steps() != 1 {
		t.Fatalf("Steps() = %d, want 1", bs.Steps())
	}
}

func TestBlockStepperLatentOnUnset(t *testing.T) {
	g := grid.New(2, 2)
	tp := tape.New(16, 4)
	c := block.NewCompiler(g)
	bs := NewBlockStepper(c, tp)

	if got := bs.Step(); got != BlockLatent {
		t.Fatalf("Step() = %v, want BlockLatent", got)
	}
}
