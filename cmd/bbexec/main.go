// cmd/bbexec/main.go
//
// bbexec is the fast executor: it replays one already-known program
// through the block-graph (rather than grid-mode, which the exhaustive
// searcher uses) with no hang detection at all, per spec.md's fast-
// executor property — it only ever halts, hits a DataError, a
// compiler-proved Hang block, reaches an Unset cell, or exhausts its step
// budget.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"bbfinder/internal/block"
	"bbfinder/internal/exec"
	"bbfinder/internal/program"
	"bbfinder/internal/tape"
)

func main() {
	args := os.Args[1:]
	if len(args) < 1 || args[0] == "--help" || args[0] == "-h" {
		fmt.Println("usage: bbexec <program-text> [tape-size] [max-steps]")
		return
	}

	g, err := program.FromString(args[0])
	if err != nil {
		log.Fatalf("bbexec: %v", err)
	}

	tapeSize := 4096
	if len(args) > 1 {
		tapeSize = mustAtoi(args[1])
	}
	maxSteps := 1_000_000
	if len(args) > 2 {
		maxSteps = mustAtoi(args[2])
	}

	t := tape.New(tapeSize, 64)
	c := block.NewCompiler(g)
	bs := exec.NewBlockStepper(c, t)

	for bs.Steps() < maxSteps {
		switch bs.Step() {
		case exec.BlockRunning:
			continue
		case exec.BlockExited:
			fmt.Printf("exited after %d steps, head=%d, cell=%d\n", bs.Steps(), t.Head(), t.Val())
			return
		case exec.BlockDataErr:
			fmt.Printf("data error after %d steps\n", bs.Steps())
			return
		case exec.BlockHangBlock:
			fmt.Printf("hang (compiler-proved) after %d steps\n", bs.Steps())
			return
		case exec.BlockLatent:
			fmt.Printf("program has an Unset cell reachable at %d steps; bbexec only replays fully-decided programs\n", bs.Steps())
			return
		}
	}
	fmt.Printf("step budget exhausted at %d steps\n", bs.Steps())
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("bbexec: %q is not a number", s)
	}
	return n
}
