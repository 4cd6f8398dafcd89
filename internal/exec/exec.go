// Package exec implements the executor (component H, spec.md §4.8): the
// per-step interpretation loop shared by the exhaustive searcher (grid
// mode) and the block-graph fast-replay path used by the standalone fast
// executor.
package exec

import (
	"bbfinder/internal/block"
	"bbfinder/internal/grid"
	"bbfinder/internal/tape"
)

// Result reports what a single macro-step of grid-mode execution did.
type Result int8

const (
	// Running advanced the pointer by exactly one grid cell.
	Running Result = iota
	// Exited means the pointer ran off the grid: the program halts.
	Exited
	// DataErr means a Data instruction tried to move the head past the
	// tape's hard limits.
	DataErr
	// NeedCell means the pointer's next cell is Unset; NeedCol/NeedRow name
	// it so the searcher can branch on what to place there.
	NeedCell
)

// Stepper drives one program's grid-mode execution: the mode used by the
// exhaustive searcher, which must inspect Unset cells as it goes.
type Stepper struct {
	g  *grid.Grid
	t  *tape.Tape
	pp grid.Pointer

	steps int

	NeedCol, NeedRow int

	// LastOp/LastDir describe the most recent Running step, for callers
	// (the searcher's hang detectors) that need to observe shifts.
	LastOp  grid.Op
	LastDir grid.Dir
}

// Save captures enough state to restore this stepper's position later,
// for the searcher's O(1)-per-step backtracking (the tape has its own
// undo log; the pointer and step count are cheap to snapshot directly).
func (s *Stepper) Save() (grid.Pointer, int) { return s.pp, s.steps }

// Restore undoes back to a previously Saved pointer/step count. It does
// not touch the tape; callers must separately Undo the tape's log back to
// the matching mark.
func (s *Stepper) Restore(pp grid.Pointer, steps int) {
	s.pp, s.steps = pp, steps
}

// NewStepper starts execution at the grid's sentinel entry pointer
// (col 0, row -1, facing Up), per spec.md §4.1.
func NewStepper(g *grid.Grid, t *tape.Tape) *Stepper {
	return &Stepper{g: g, t: t, pp: grid.Pointer{Col: 0, Row: -1, Dir: grid.Up}}
}

func (s *Stepper) Steps() int           { return s.steps }
func (s *Stepper) Pointer() grid.Pointer { return s.pp }

// Step resolves any chain of Turn instructions ahead of the pointer (which
// never advances position) and then executes exactly one Noop or Data
// cell, advancing the pointer onto it. Per spec.md §4.8. Stepping off the
// grid also counts as one step, as it does for an Exit block in block mode.
func (s *Stepper) Step() Result {
	for {
		ncol, nrow := s.pp.Next()
		if !s.g.InBounds(ncol, nrow) {
			s.steps++
			return Exited
		}
		switch s.g.Get(ncol, nrow) {
		case grid.Unset:
			s.NeedCol, s.NeedRow = ncol, nrow
			return NeedCell
		case grid.Noop:
			s.LastOp, s.LastDir = grid.Noop, s.pp.Dir
			s.pp.Col, s.pp.Row = ncol, nrow
			s.steps++
			return Running
		case grid.Data:
			if !s.applyData() {
				return DataErr
			}
			s.LastOp, s.LastDir = grid.Data, s.pp.Dir
			s.pp.Col, s.pp.Row = ncol, nrow
			s.steps++
			return Running
		case grid.Turn:
			if s.t.Val() == 0 {
				s.pp.Dir = s.pp.Dir.RotateCounterClockwise()
			} else {
				s.pp.Dir = s.pp.Dir.RotateClockwise()
			}
		}
	}
}

// applyData mutates the tape according to the direction the pointer is
// currently traveling when it enters a Data cell, per spec.md §4.7/§4.8:
// Up -> Inc, Down -> Dec, Right -> ShR, Left -> ShL. Returns false on a
// DataError (ShR/ShL hit the tape's hard limit).
func (s *Stepper) applyData() bool {
	switch s.pp.Dir {
	case grid.Up:
		s.t.Inc()
		return true
	case grid.Down:
		s.t.Dec()
		return true
	case grid.Right:
		return s.t.ShR()
	default: // grid.Left
		return s.t.ShL()
	}
}

// BlockResult reports what one block-graph macro-step did.
type BlockResult int8

const (
	BlockRunning BlockResult = iota
	BlockExited
	BlockDataErr
	BlockHangBlock // entered a block the compiler itself proved can never exit (spec.md §4.7 Hang kind)
	BlockLatent    // the next block hasn't been compiled yet (grid has an Unset cell reachable from here)
)

// BlockStepper replays an already-fully-compiled region of the program via
// its block graph instead of cell by cell: spec.md §4.8's "block-graph
// mode", used for fast replay (cmd/bbexec). The no-exit hang detector walks
// the block graph itself and does not use it.
type BlockStepper struct {
	c     *block.Compiler
	t     *tape.Tape
	cur   *block.Block
	steps int
}

func NewBlockStepper(c *block.Compiler, t *tape.Tape) *BlockStepper {
	return &BlockStepper{c: c, t: t, cur: c.EntryBlock()}
}

func (bs *BlockStepper) Steps() int            { return bs.steps }
func (bs *BlockStepper) Current() *block.Block { return bs.cur }

// Step finalizes the current block if needed, applies its bulk data
// effect to the tape, and follows the zero/nonzero successor matching the
// tape's current value.
func (bs *BlockStepper) Step() BlockResult {
	if !bs.cur.Finalized() {
		if bs.c.Finalize(bs.cur) == nil {
			return BlockLatent
		}
	}

	switch bs.cur.Kind() {
	case block.Exit:
		bs.steps += bs.cur.NumSteps()
		return BlockExited
	case block.Hang:
		bs.steps += bs.cur.NumSteps()
		return BlockHangBlock
	}

	if !bs.applyBulk(bs.cur.Kind(), bs.cur.Amount()) {
		return BlockDataErr
	}
	bs.steps += bs.cur.NumSteps()

	var next *block.Block
	if bs.t.Val() == 0 {
		next = bs.cur.ZeroSucc()
	} else {
		next = bs.cur.NonzeroSucc()
	}
	if next == nil {
		// The zero-successor omission exception (spec.md §4.7): reaching
		// here with a live zero value that the block's own construction
		// proved impossible indicates a logic error upstream, not a
		// program behavior; treat conservatively as an exit.
		return BlockExited
	}
	bs.cur = next
	return BlockRunning
}

func (bs *BlockStepper) applyBulk(kind block.Kind, amount int) bool {
	n := amount
	if n < 0 {
		n = -n
	}
	for i := 0; i < n; i++ {
		switch kind {
		case block.Delta:
			if amount > 0 {
				bs.t.Inc()
			} else {
				bs.t.Dec()
			}
		case block.Shift:
			var ok bool
			if amount > 0 {
				ok = bs.t.ShR()
			} else {
				ok = bs.t.ShL()
			}
			if !ok {
				return false
			}
		}
	}
	return true
}
