// Command hawkesfit estimates Hawkes process parameters from a CSV of
// event timestamps, with optional SQLite persistence, PNG convergence
// plots and an HTML diagnostics report.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/banshee-data/hawkes/internal/fitstore"
	"github.com/banshee-data/hawkes/internal/hawkes"
	"github.com/banshee-data/hawkes/internal/report"
)

// Config holds the parsed command line.
type Config struct {
	Input      string
	Iterations int
	Mu0        float64
	A0         float64
	B0         float64
	Sparse     bool
	MaxGap     float64
	Workers    int
	DBPath     string
	PlotsDir   string
	ReportPath string
	Name       string
	Quiet      bool
}

func main() {
	var cfg Config
	flag.StringVar(&cfg.Input, "input", "", "CSV file of event timestamps (first column, one per row)")
	flag.IntVar(&cfg.Iterations, "iterations", 100, "number of EM iterations")
	flag.Float64Var(&cfg.Mu0, "mu0", 0.9, "initial background rate")
	flag.Float64Var(&cfg.A0, "a0", 0.8, "initial kernel amplitude")
	flag.Float64Var(&cfg.B0, "b0", 0.5, "initial kernel decay rate")
	flag.BoolVar(&cfg.Sparse, "sparse", false, "use the compressed gap structure")
	flag.Float64Var(&cfg.MaxGap, "max-gap", 0, "gap retention threshold for -sparse")
	flag.IntVar(&cfg.Workers, "workers", 1, "parallel E-step workers")
	flag.StringVar(&cfg.DBPath, "db", "", "optional SQLite database to persist the run")
	flag.StringVar(&cfg.PlotsDir, "plots", "", "optional directory for PNG convergence plots")
	flag.StringVar(&cfg.ReportPath, "report", "", "optional path for the HTML report")
	flag.StringVar(&cfg.Name, "name", "", "sequence name used when persisting (defaults to the input path)")
	flag.BoolVar(&cfg.Quiet, "quiet", false, "suppress per-iteration logging")
	flag.Parse()

	if cfg.Input == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("[hawkesfit] %v", err)
	}
}

func run(cfg Config) error {
	times, err := readTimestamps(cfg.Input)
	if err != nil {
		return err
	}
	log.Printf("[hawkesfit] loaded %d timestamps from %s (span %.3f)",
		len(times), cfg.Input, times[len(times)-1]-times[0])

	var trace hawkes.Trace
	fitCfg := hawkes.FitConfig{
		Iterations: cfg.Iterations,
		Initial:    hawkes.Params{Mu: cfg.Mu0, A: cfg.A0, B: cfg.B0},
		Sparse:     cfg.Sparse,
		MaxGap:     cfg.MaxGap,
		Workers:    cfg.Workers,
	}

	traceObserver := trace.Observer()
	fitCfg.Observer = func(s hawkes.Snapshot) {
		traceObserver(s)
		if cfg.Quiet {
			return
		}
		pts := trace.Points()
		log.Printf("[EM] iter=%d mu=%.6f a=%.6f b=%.6f Q=%.6f",
			s.Iteration, s.Params.Mu, s.Params.A, s.Params.B, pts[len(pts)-1].Q)
	}

	res, err := hawkes.Fit(times, fitCfg)
	if err != nil {
		return err
	}

	fmt.Printf("mu=%.6f a=%.6f b=%.6f branching=%.4f iterations=%d\n",
		res.Params.Mu, res.Params.A, res.Params.B,
		res.Params.BranchingRatio(), res.Iterations)

	if cfg.DBPath != "" {
		if err := persist(cfg, times, res, trace.Points()); err != nil {
			return err
		}
	}
	if cfg.PlotsDir != "" {
		if err := report.ConvergencePlots(trace.Points(), cfg.PlotsDir); err != nil {
			return fmt.Errorf("plots: %w", err)
		}
		log.Printf("[hawkesfit] wrote convergence plots to %s", cfg.PlotsDir)
	}
	if cfg.ReportPath != "" {
		if err := report.HTMLReport(times, res.Params, trace.Points(), cfg.ReportPath); err != nil {
			return fmt.Errorf("report: %w", err)
		}
		log.Printf("[hawkesfit] wrote HTML report to %s", cfg.ReportPath)
	}
	return nil
}

func persist(cfg Config, times []float64, res *hawkes.FitResult, trace []hawkes.TracePoint) error {
	store, err := fitstore.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	name := cfg.Name
	if name == "" {
		name = cfg.Input
	}
	seq := &fitstore.Sequence{Name: name, Times: times}
	if err := store.InsertSequence(seq); err != nil {
		return err
	}

	run := &fitstore.FitRun{
		SequenceID: seq.SequenceID,
		Iterations: res.Iterations,
		Initial:    hawkes.Params{Mu: cfg.Mu0, A: cfg.A0, B: cfg.B0},
		Final:      res.Params,
		Stats:      hawkes.ReduceStats(res.Responsibilities, res.Gaps),
	}
	if err := store.InsertRun(run); err != nil {
		return err
	}
	if err := store.InsertTrace(run.RunID, trace); err != nil {
		return err
	}
	log.Printf("[hawkesfit] persisted run %s (sequence %s) to %s", run.RunID, seq.SequenceID, cfg.DBPath)
	return nil
}

// readTimestamps reads the first column of a CSV file as float64
// timestamps. A single non-numeric header row is tolerated.
func readTimestamps(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var times []float64
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		row++
		if len(rec) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			if row == 1 {
				continue // header
			}
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		times = append(times, v)
	}
	if len(times) < 2 {
		return nil, fmt.Errorf("%s: need at least 2 timestamps, got %d", path, len(times))
	}
	return times, nil
}
