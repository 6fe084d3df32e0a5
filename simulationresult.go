package sieve

import (
	"context"
	"log"

	"github.com/hscells/sieve/state"
)

// SimulationResult is the output of one simulation run concurrently with others.
type SimulationResult struct {
	Run   state.Run
	Error error
}

// SimulateAll runs every simulation, at most concurrency at a time, sending each result on c
// as it completes. Simulations share nothing, so their results do not depend on the
// concurrency. The channel is closed once every simulation has finished.
func SimulateAll(ctx context.Context, simulations []Simulation, concurrency int, c chan SimulationResult) {
	defer close(c)
	if concurrency < 1 {
		concurrency = 1
	}

	sem := make(chan bool, concurrency)
	for _, sim := range simulations {
		sem <- true
		go func(s Simulation) {
			defer func() { <-sem }()
			log.Printf("starting simulation %s (seed %d)\n", s.ID(), s.Seed)
			run, err := s.Simulate(ctx)
			c <- SimulationResult{Run: run, Error: err}
			log.Printf("completed simulation %s\n", s.ID())
		}(sim)
	}

	// Wait until the last goroutine has read from the semaphore.
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
}
