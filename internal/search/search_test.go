package search

import (
	"testing"

	"bbfinder/internal/config"
	"bbfinder/internal/grid"
)

func TestSearch1x1ExploresAllThreeOps(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 1, 1
	cfg.TapeSize = 64
	cfg.HangSamplePeriod = 4
	cfg.MaxStepsPerProgram = 100

	var results []Result
	s := New(cfg)
	s.OnResult = func(r Result) { results = append(results, r) }
	s.Run()

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (Noop/Data/Turn at the one cell)", len(results))
	}
	for _, r := range results {
		if r.Verdict != VerdictExited {
			t.Errorf("verdict = %v, want VerdictExited (a 1x1 grid can never hang or DataError)", r.Verdict)
		}
	}
	if s.Candidates() != 3 {
		t.Errorf("Candidates() = %d, want 3", s.Candidates())
	}
}

func TestResumeFromSkipsAlreadyExploredSiblings(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 1, 1
	cfg.TapeSize = 64
	cfg.HangSamplePeriod = 4
	cfg.MaxStepsPerProgram = 100

	// Resuming from Data means Noop (tried before Data in the fixed
	// order) is assumed already explored and is skipped; Data itself and
	// Turn (which comes after it) are both tried.
	s := New(cfg)
	s.ResumeFrom([]grid.Op{grid.Data})
	var count int
	s.OnResult = func(Result) { count++ }
	s.Run()

	if count != 2 {
		t.Fatalf("candidates explored with ResumeFrom([Data]) = %d, want 2 (Data, Turn)", count)
	}
}

func TestResumeFromAtTheFirstOpReplaysEverything(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 1, 1
	cfg.TapeSize = 64
	cfg.HangSamplePeriod = 4
	cfg.MaxStepsPerProgram = 100

	s := New(cfg)
	s.ResumeFrom([]grid.Op{grid.Noop})
	var count int
	s.OnResult = func(Result) { count++ }
	s.Run()

	if count != 3 {
		t.Fatalf("candidates explored with ResumeFrom([Noop]) = %d, want 3 (nothing was already explored)", count)
	}
}
