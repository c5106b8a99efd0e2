// Command hawkes-sim draws a synthetic realization of an
// exponential-kernel Hawkes process and writes it as a one-column CSV,
// suitable as input for hawkesfit.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/banshee-data/hawkes/internal/hawkes"
)

func main() {
	var (
		mu      = flag.Float64("mu", 0.5, "background rate")
		a       = flag.Float64("a", 0.6, "kernel amplitude")
		b       = flag.Float64("b", 1.2, "kernel decay rate")
		horizon = flag.Float64("horizon", 1000, "simulation horizon")
		seed    = flag.Int64("seed", 1, "RNG seed")
		output  = flag.String("output", "", "output CSV path (stdout when empty)")
	)
	flag.Parse()

	params := hawkes.Params{Mu: *mu, A: *a, B: *b}
	events, err := hawkes.Simulate(params, *horizon, rand.New(rand.NewSource(*seed)))
	if err != nil {
		log.Fatalf("[hawkes-sim] %v", err)
	}
	log.Printf("[hawkes-sim] %s horizon=%g events=%d (stationary rate %.3f)",
		params, *horizon, len(events), params.Mu/(1-params.BranchingRatio()))

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("[hawkes-sim] create %s: %v", *output, err)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	for _, t := range events {
		fmt.Fprintf(w, "%.9f\n", t)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("[hawkes-sim] write: %v", err)
	}
}
