// cmd/bbfinder/main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"bbfinder/internal/bigcount"
	"bbfinder/internal/block"
	"bbfinder/internal/config"
	"bbfinder/internal/grid"
	"bbfinder/internal/irexport"
	"bbfinder/internal/program"
	"bbfinder/internal/progress"
	"bbfinder/internal/resultstore"
	"bbfinder/internal/search"
)

const version = "1.0.0"

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	if args[0] == "--help" || args[0] == "help" {
		showUsage()
		return
	}
	if args[0] == "--version" || args[0] == "version" {
		fmt.Println("bbfinder " + version)
		return
	}

	cfg := config.Default()
	wsPort := 0
	resumeStr := ""

	for i := 0; i < len(args); i++ {
		arg := args[i]
		next := func() string {
			i++
			if i >= len(args) {
				log.Fatalf("bbfinder: missing value for %s", arg)
			}
			return args[i]
		}
		switch arg {
		case "-w", "--width":
			cfg.Width = mustAtoi(next())
		case "-h", "--height":
			cfg.Height = mustAtoi(next())
		case "-d", "--tape-size":
			cfg.TapeSize = mustAtoi(next())
		case "--max-steps":
			cfg.MaxStepsPerProgram = mustAtoi(next())
		case "--max-steps-total":
			cfg.MaxTotalSteps = int64(mustAtoi(next()))
		case "-p", "--progress-every":
			cfg.ProgressEvery = int64(mustAtoi(next()))
		case "--store-dsn":
			cfg.ResultStoreDSN = next()
		case "--store-driver":
			cfg.ResultStoreDriver = next()
		case "--export-llvm":
			cfg.ExportLLVMPath = next()
		case "--ws-port":
			wsPort = mustAtoi(next())
		case "--resume":
			resumeStr = next()
		default:
			log.Fatalf("bbfinder: unrecognized argument %q (try --help)", arg)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("bbfinder: %v", err)
	}

	var resume []grid.Op
	if resumeStr != "" {
		r, err := parseResumeVector(resumeStr)
		if err != nil {
			log.Fatalf("bbfinder: --resume: %v", err)
		}
		resume = r
	}

	run(cfg, wsPort, resume)
}

// parseResumeVector reads a resume vector written as one character per
// depth using the same symbols internal/grid.Op.String() renders
// (Noop='_', Data='o', Turn='*'), matching a program dump a previous run
// might have logged.
func parseResumeVector(s string) ([]grid.Op, error) {
	ops := make([]grid.Op, 0, len(s))
	for _, r := range s {
		switch r {
		case '_':
			ops = append(ops, grid.Noop)
		case 'o':
			ops = append(ops, grid.Data)
		case '*':
			ops = append(ops, grid.Turn)
		default:
			return nil, fmt.Errorf("invalid character %q (use _/o/* for Noop/Data/Turn)", r)
		}
	}
	return ops, nil
}

func run(cfg config.Settings, wsPort int, resume []grid.Op) {
	var store *resultstore.Store
	if cfg.ResultStoreDSN != "" {
		s, err := resultstore.Open(cfg.ResultStoreDriver, cfg.ResultStoreDSN)
		if err != nil {
			log.Fatalf("bbfinder: %v", err)
		}
		defer s.Close()
		store = s
	}

	hub := progress.NewHub(progress.IsTerminalStdout(os.Stdout.Fd()))
	hub.LogSettings(cfg)
	if wsPort > 0 {
		http.HandleFunc("/progress", hub.ServeWS)
		go func() {
			addr := ":" + strconv.Itoa(wsPort)
			log.Printf("bbfinder: progress websocket listening on %s", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Printf("bbfinder: websocket server stopped: %v", err)
			}
		}()
	}

	s := search.New(cfg)
	if len(resume) > 0 {
		s.ResumeFrom(resume)
	}
	totals := bigcount.NewAccumulator()
	bestSteps := 0
	bestText := ""

	s.OnResult = func(r search.Result) {
		totals.Add(r.Steps)
		if r.Verdict != search.VerdictExited && r.Steps > bestSteps {
			bestSteps = r.Steps
			bestText = program.ToString(r.Program)
			if store != nil {
				if _, err := store.Record(cfg.Width, cfg.Height, bestText, r.Steps, verdictName(r.Verdict)); err != nil {
					log.Printf("bbfinder: record result: %v", err)
				}
			}
		}
	}
	s.OnProgress = func(candidates, totalSteps int64) {
		hub.Report(candidates, totalSteps, bestSteps, bestText)
	}

	s.Run()

	hub.Report(s.Candidates(), s.TotalSteps(), bestSteps, bestText)
	fmt.Printf("best: %d steps (a hang, not a halt, is the usual Busy Beaver champion)\n", bestSteps)
	if bestText != "" {
		fmt.Println(bestText)
	}
	fmt.Printf("explored %s candidate programs, %s total steps\n",
		totals.Count().String(), totals.Total().String())

	if cfg.ExportLLVMPath != "" && bestText != "" {
		if err := exportBest(bestText, cfg.ExportLLVMPath); err != nil {
			log.Printf("bbfinder: export LLVM IR: %v", err)
		}
	}
}

func exportBest(text, path string) error {
	g, err := program.FromString(text)
	if err != nil {
		return err
	}
	c := block.NewCompiler(g)
	entry := c.EntryBlock()
	if c.Finalize(entry) == nil {
		return fmt.Errorf("best program has an unreachable construction (should not happen for a fully-decided result)")
	}
	ir, err := irexport.Export(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(ir), 0o644)
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("bbfinder: %q is not a number", s)
	}
	return n
}

func verdictName(v search.Verdict) string {
	switch v {
	case search.VerdictExited:
		return "exited"
	case search.VerdictDataError:
		return "data_error"
	case search.VerdictEffectiveHang:
		return "effective_hang"
	case search.VerdictDeltaHang:
		return "delta_hang"
	case search.VerdictPeriodicHang:
		return "periodic_hang"
	case search.VerdictSweepHang:
		return "sweep_hang"
	case search.VerdictStepLimit:
		return "step_limit"
	case search.VerdictNoExit:
		return "no_exit"
	default:
		return "unknown"
	}
}

func showUsage() {
	fmt.Print(`bbfinder - exhaustive Busy Beaver search over small 2D grid programs

Usage:
  bbfinder [flags]

Flags:
  -w, --width <n>            grid width, 1-8 (default 4)
  -h, --height <n>           grid height, 1-8 (default 4)
  -d, --tape-size <n>        data tape length (default 4096)
      --max-steps <n>        per-program grid-step budget (default 100000)
      --max-steps-total <n>  whole-run grid-step budget, 0 = unbounded
  -p, --progress-every <n>   log/broadcast progress every n candidates
      --store-dsn <dsn>      persist results via internal/resultstore
      --store-driver <name>  mysql | postgres | mssql | sqlite3 | sqlite-pure
      --export-llvm <path>   dump the best program's block graph as LLVM IR
      --ws-port <n>          serve live progress over a websocket on :n
      --resume <vector>      retrace a prior run's op choices (_=Noop, o=Data, *=Turn)
      --help                 show this message
      --version              show the version
`)
}
