package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alexflint/go-arg"
	"github.com/go-errors/errors"
	"github.com/hscells/sieve"
	"github.com/hscells/sieve/dataset"
	"github.com/hscells/sieve/output"
	"github.com/hscells/sieve/rank"
	"github.com/hscells/sieve/state"
	"github.com/hscells/trecresults"
	"github.com/magiconair/properties"
	"gopkg.in/cheggaaa/pb.v1"
)

var (
	name    = "simulate"
	version = "19.Oct.2026"
	author  = "Harry Scells"
)

type args struct {
	Config      string `help:"properties file with balance_param and simulate_param sections" arg:"-c"`
	Seed        *int64 `help:"seed of the first run (overrides simulate_param.seed)" arg:"-s"`
	Runs        int    `help:"number of runs, each with the next seed" arg:"-n"`
	Concurrency int    `help:"number of runs to simulate at once" arg:"-j"`
	State       string `help:"directory to store runs in" arg:"-d"`
	TrecOutput  string `help:"write the reading order of every run to this file" arg:"-o"`
	Quiet       bool   `help:"do not show a progress bar" arg:"-q"`
	Dataset     string `help:"path to dataset csv" arg:"required,positional"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
@ %s
# %s`, name, author, version)
}

func fatal(err error) {
	fmt.Println(errors.Wrap(err, 0).ErrorStack())
	os.Exit(1)
}

func main() {
	args := args{Runs: 1, Concurrency: 1}
	arg.MustParse(&args)

	d, err := dataset.Load(args.Dataset)
	if err != nil {
		fatal(err)
	}

	p := properties.NewProperties()
	if len(args.Config) > 0 {
		p, err = properties.LoadFile(args.Config, properties.UTF8)
		if err != nil {
			fatal(err)
		}
	}

	base, err := sieve.LoadSimulation(d, p)
	if err != nil {
		fatal(err)
	}
	if args.Seed != nil {
		base.Seed = *args.Seed
	}

	var bar *pb.ProgressBar
	if !args.Quiet {
		bar = pb.StartNew(args.Runs * len(d.Papers))
	}
	sims := make([]sieve.Simulation, args.Runs)
	for i := range sims {
		s := base
		s.Seed = base.Seed + int64(i)
		if bar != nil {
			last := 0
			s.Progress = func(labelled, total int) {
				bar.Add(labelled - last)
				last = labelled
			}
		}
		sims[i] = s
	}

	store := state.NewMapRunStore()
	if len(args.State) > 0 {
		store = state.OpenDiskvRunStore(args.State)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		log.Println("interrupted, stopping simulations")
		cancel()
	}()

	pool, err := d.Pool()
	if err != nil {
		fatal(err)
	}

	var orders trecresults.ResultList
	c := make(chan sieve.SimulationResult)
	go sieve.SimulateAll(ctx, sims, args.Concurrency, c)
	for result := range c {
		if result.Error != nil {
			fatal(result.Error)
		}
		run := result.Run
		if err := store.Put(run); err != nil {
			fatal(err)
		}
		orders = append(orders, rank.ReadingOrder(pool, run.Order, run.Relevance, run.ID, run.Strategy)...)
		if bar == nil {
			log.Printf("run %s (seed %d): %d papers labelled, %d fallbacks, %d warnings\n", run.ID, run.Seed, len(run.Order), run.Fallbacks, run.Warnings)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if len(args.TrecOutput) > 0 {
		if err := os.MkdirAll(filepath.Dir(args.TrecOutput), 0755); err != nil {
			fatal(err)
		}
		f, err := os.OpenFile(args.TrecOutput, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		if err := output.WriteTrec(f, orders); err != nil {
			fatal(err)
		}
	}
}
