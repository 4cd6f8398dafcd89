// Package search implements the exhaustive searcher (component J,
// spec.md §4.10): a depth-first walk over every W×H program, filling
// Unset cells one at a time and backtracking in O(1) per undone step via
// the tape's undo log, the block compiler's push/pop frames, and the
// pointer's own cheap save/restore.
package search

import (
	"bbfinder/internal/block"
	"bbfinder/internal/config"
	"bbfinder/internal/exec"
	"bbfinder/internal/grid"
	"bbfinder/internal/hang"
	"bbfinder/internal/tape"
)

// Verdict classifies why a candidate program's exploration along one path
// ended.
type Verdict int8

const (
	VerdictExited Verdict = iota
	VerdictDataError
	VerdictEffectiveHang
	VerdictDeltaHang
	VerdictPeriodicHang
	VerdictSweepHang
	VerdictStepLimit
	VerdictNoExit
)

// noExitCheckInterval gates how often the no-exit detector (hang.DetectNoExit)
// runs: it walks the whole reachable block graph from the program's entry
// block, which is comparatively expensive per call, so the searcher only
// escalates to it after this many consecutive sample-period checks left
// both the periodic and sweep detectors inconclusive (spec.md §4.9).
const noExitCheckInterval = 4

// Result is reported once per candidate program whose execution ended (a
// halt, a DataError, a detected hang or the step limit) before reaching
// another Unset cell; cells the execution never visited are still Unset in
// Program. Program aliases the
// searcher's single shared grid, which keeps mutating after OnResult
// returns (backtracking clears cells, later branches set others); callers
// that need to keep a program around must copy it (e.g. via
// internal/program.ToString) before returning from OnResult.
type Result struct {
	Program *grid.Grid
	Steps   int
	Verdict Verdict
}

// Searcher drives the exhaustive enumeration. OnResult is invoked for
// every leaf of the search tree; callers (the CLI, a result store, a
// progress reporter) use it to track the best-known program.
type Searcher struct {
	g    *grid.Grid
	t    *tape.Tape
	bc   *block.Compiler
	st   *exec.Stepper
	cfg  config.Settings

	periodic *hang.PeriodicDetector
	sweep    *hang.SweepDetector

	stepsSinceCheck    int
	inconclusiveChecks int
	candidates         int64
	totalSteps         int64

	// resume and depth implement the resume-vector mechanism recovered
	// from the original's Resumer.cpp: a prior run's sequence of op
	// choices, one per Unset-cell depth, letting this run skip back to
	// (and then past) a previously-reached point in the search tree
	// instead of starting over from the empty grid.
	resume []grid.Op
	depth  int

	OnResult   func(Result)
	OnProgress func(candidates, totalSteps int64)
}

// ResumeFrom installs a resume vector. At each depth covered by ops, the
// search retraces exactly that depth's recorded choice (siblings tried
// before it in the fixed Noop/Data/Turn order are assumed already fully
// explored and skipped); at the last depth the vector covers, it also
// tries whatever siblings come after the recorded choice, since those
// were not yet explored when the vector was captured. Once the search
// descends past the vector's length, it falls back to the ordinary
// three-way enumeration. Must be called before Run.
func (s *Searcher) ResumeFrom(ops []grid.Op) {
	s.resume = ops
}

// New builds a searcher for the given settings, allocating a fresh grid
// and tape.
func New(cfg config.Settings) *Searcher {
	g := grid.New(cfg.Width, cfg.Height)
	t := tape.New(cfg.TapeSize, cfg.HangSamplePeriod)
	s := &Searcher{
		g:        g,
		t:        t,
		bc:       block.NewCompiler(g),
		st:       exec.NewStepper(g, t),
		cfg:      cfg,
		periodic: hang.NewPeriodicDetector(t, cfg.HangSamplePeriod),
		sweep:    hang.NewSweepDetector(t),
	}
	return s
}

// Run explores the entire search tree from the empty grid.
func (s *Searcher) Run() {
	s.search()
}

func opTag(op grid.Op, dir grid.Dir) int8 { return int8(op)*4 + int8(dir) }

// search continues execution from the shared stepper's current state
// until the candidate program is fully decided (halt, DataError, a
// detected hang) or another Unset cell is reached, in which case it
// branches.
func (s *Searcher) search() {
	for {
		if s.cfg.MaxTotalSteps > 0 && s.totalSteps >= s.cfg.MaxTotalSteps {
			return
		}

		res := s.st.Step()
		switch res {
		case exec.Running:
			s.periodic.OnStep(opTag(s.st.LastOp, s.st.LastDir))
			if s.st.LastOp == grid.Data && (s.st.LastDir == grid.Right || s.st.LastDir == grid.Left) {
				dir := 1
				if s.st.LastDir == grid.Left {
					dir = -1
				}
				switch s.sweep.OnShift(dir) {
				case 2:
					if s.t.Head() > s.t.MinBound() && s.t.Head() < s.t.MaxBound() {
						pos := s.t.Head()
						s.sweep.OnMidTurningPoint(&pos)
					}
				case 3:
					s.sweep.RecordSweepStart(s.st.Pointer())
				}
			}

			s.stepsSinceCheck++
			if s.stepsSinceCheck >= s.cfg.HangSamplePeriod {
				s.stepsSinceCheck = 0
				if s.t.HangDetected() {
					s.finish(VerdictEffectiveHang)
					return
				}
				t := s.t
				t.ResetHangDetection()
				if s.periodic.Check() {
					s.finish(VerdictPeriodicHang)
					return
				}
				if s.sweep.Check(s.st.Pointer()) {
					s.finish(VerdictSweepHang)
					return
				}
				s.inconclusiveChecks++
				if s.inconclusiveChecks >= noExitCheckInterval {
					s.inconclusiveChecks = 0
					if hang.DetectNoExit(s.bc, s.bc.EntryBlock()) {
						s.finish(VerdictNoExit)
						return
					}
				}
			}
			if s.st.Steps() >= s.cfg.MaxStepsPerProgram {
				s.finish(VerdictStepLimit)
				return
			}

		case exec.Exited:
			s.finish(VerdictExited)
			return

		case exec.DataErr:
			s.finish(VerdictDataError)
			return

		case exec.NeedCell:
			s.branch(s.st.NeedCol, s.st.NeedRow)
			return
		}
	}
}

var branchOps = [3]grid.Op{grid.Noop, grid.Data, grid.Turn}

// branch tries each of the three fillable ops at (col, row) in turn,
// recursing into search for each, and fully undoes every effect (tape,
// block graph, pointer/step count, hang-detector state) before trying the
// next op and before returning, per spec.md §4.10's push/pop protocol.
func (s *Searcher) branch(col, row int) {
	entryPP, entrySteps := s.st.Save()
	entryUndoMark := s.t.UndoLen()
	entryStepsSinceCheck := s.stepsSinceCheck
	entryInconclusiveChecks := s.inconclusiveChecks

	ops := s.opsForDepth(s.depth)
	s.depth++
	for _, op := range ops {
		s.g.Set(col, row, op)
		s.bc.Push()
		s.periodic.Reset()
		s.sweep.Reset()
		s.stepsSinceCheck = entryStepsSinceCheck
		s.inconclusiveChecks = entryInconclusiveChecks
		s.st.Restore(entryPP, entrySteps)

		s.search()

		s.t.Undo(s.t.UndoLen() - entryUndoMark)
		s.bc.Pop()
		s.st.Restore(entryPP, entrySteps)
	}
	s.depth--
	s.g.Clear(col, row)
}

// opsForDepth returns the ops to try at the given search depth, per
// ResumeFrom's contract.
func (s *Searcher) opsForDepth(depth int) []grid.Op {
	if depth >= len(s.resume) {
		return branchOps[:]
	}
	resumed := s.resume[depth]
	if depth < len(s.resume)-1 {
		return []grid.Op{resumed}
	}
	idx := 0
	for i, op := range branchOps {
		if op == resumed {
			idx = i
			break
		}
	}
	return branchOps[idx:]
}

// finish is called once per fully-decided candidate program.
func (s *Searcher) finish(v Verdict) {
	s.candidates++
	s.totalSteps += int64(s.st.Steps())
	if s.OnResult != nil {
		s.OnResult(Result{Program: s.g, Steps: s.st.Steps(), Verdict: v})
	}
	if s.OnProgress != nil && s.cfg.ProgressEvery > 0 && s.candidates%s.cfg.ProgressEvery == 0 {
		s.OnProgress(s.candidates, s.totalSteps)
	}
}

// Candidates reports how many fully-decided programs have been explored
// so far.
func (s *Searcher) Candidates() int64 { return s.candidates }

// TotalSteps reports the cumulative step count across all explored
// programs so far.
func (s *Searcher) TotalSteps() int64 { return s.totalSteps }
