// Package config holds the ambient search settings (spec.md SPEC_FULL.md
// §11), following the teacher's cmd/sentra pattern of a plain struct
// populated by hand-rolled flag parsing rather than a flags/config
// library (no cobra/viper/pflag appears anywhere in the example pack).
package config

import "bbfinder/internal/bberrors"

// Settings configures one exhaustive search run.
type Settings struct {
	Width  int
	Height int

	// TapeSize is the data tape's fixed allocated length; the head starts
	// at its center. Must be large enough that typical programs don't hit
	// DataError prematurely.
	TapeSize int

	// MaxStepsPerProgram bounds grid-mode execution per candidate program
	// before it's conservatively treated as a (step-limit) hang.
	MaxStepsPerProgram int

	// MaxTotalSteps bounds the whole search run's cumulative step count,
	// 0 meaning unbounded.
	MaxTotalSteps int64

	// HangSamplePeriod is the period (in grid steps) between Hang-1/Hang-2
	// resets and periodic/sweep-hang snapshot captures.
	HangSamplePeriod int

	// ProgressEvery, if > 0, emits a progress update every N candidate
	// programs explored.
	ProgressEvery int64

	// ResultStoreDSN, if set, persists results via internal/resultstore.
	ResultStoreDSN    string
	ResultStoreDriver string

	// ExportLLVMPath, if set, writes the best-found program's block graph
	// as LLVM IR (internal/irexport) to this path once the search ends.
	ExportLLVMPath string
}

// Default returns the baseline settings: a 4x4 grid, a 4096-cell tape, a
// 100,000-step per-program budget, no whole-run budget, a hang sample
// period of 64 and a progress update every 1,000,000 candidates.
func Default() Settings {
	return Settings{
		Width:              4,
		Height:             4,
		TapeSize:           4096,
		MaxStepsPerProgram: 100_000,
		MaxTotalSteps:       0,
		HangSamplePeriod:   64,
		ProgressEvery:      1_000_000,
	}
}

// Validate checks the settings are within spec.md's bounds and internally
// consistent, matching the teacher's early-validate-then-run style in
// cmd/sentra/main.go.
func (s Settings) Validate() error {
	if s.Width < 1 || s.Width > 8 {
		return bberrors.New(bberrors.ConfigError, "width %d out of range [1,8]", s.Width)
	}
	if s.Height < 1 || s.Height > 8 {
		return bberrors.New(bberrors.ConfigError, "height %d out of range [1,8]", s.Height)
	}
	if s.TapeSize < 3 {
		return bberrors.New(bberrors.ConfigError, "tape size %d too small", s.TapeSize)
	}
	if s.MaxStepsPerProgram < 1 {
		return bberrors.New(bberrors.ConfigError, "max steps per program must be positive")
	}
	if s.HangSamplePeriod < 1 {
		return bberrors.New(bberrors.ConfigError, "hang sample period must be positive")
	}
	if s.ResultStoreDSN != "" && s.ResultStoreDriver == "" {
		return bberrors.New(bberrors.ConfigError, "result store DSN set without a driver")
	}
	return nil
}
