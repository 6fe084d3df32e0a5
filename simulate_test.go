package sieve_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/hscells/sieve"
	"github.com/hscells/sieve/dataset"
	"github.com/hscells/sieve/learning"
	"github.com/hscells/sieve/rank"
	"github.com/magiconair/properties"
)

// twoClusters is a dataset where included papers point along the first axis and excluded
// papers along the second.
func twoClusters(nInc, nExc int) dataset.Dataset {
	d := dataset.Dataset{Name: "clusters"}
	for i := 0; i < nInc+nExc; i++ {
		p := learning.Paper{ID: fmt.Sprintf("p%d", i)}
		// Interleave the classes so that dataset order says nothing about relevance.
		if i%((nInc+nExc)/nInc) == 0 && countLabel(d, learning.Included) < nInc {
			p.Label = learning.Included
			p.Features = []float64{1, 0.1 * float64(i%3)}
		} else {
			p.Label = learning.Excluded
			p.Features = []float64{0.1 * float64(i%3), 1}
		}
		d.Papers = append(d.Papers, p)
	}
	return d
}

func countLabel(d dataset.Dataset, l learning.Label) int {
	n := 0
	for _, p := range d.Papers {
		if p.Label == l {
			n++
		}
	}
	return n
}

func TestSimulate(t *testing.T) {
	d := twoClusters(5, 45)
	sim := sieve.NewSimulation(d, sieve.Seed(1))
	run, err := sim.Simulate(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(run.Order) != len(d.Papers) {
		t.Fatalf("expected every paper to be labelled, got %d of %d", len(run.Order), len(d.Papers))
	}
	seen := make(map[int]bool)
	for _, i := range run.Order {
		if seen[i] {
			t.Fatalf("paper %d labelled twice", i)
		}
		seen[i] = true
	}
	if run.NInitial != 2 {
		t.Errorf("expected 2 prior papers, got %d", run.NInitial)
	}
	if run.Labels[run.Order[0]] != learning.Included || run.Labels[run.Order[1]] != learning.Excluded {
		t.Errorf("expected prior knowledge to be one included then one excluded paper, got %v", run.Order[:2])
	}
	if len(run.TrainSizes) != len(d.Papers)-2 {
		t.Errorf("expected one training set per round, got %d", len(run.TrainSizes))
	}
	if run.Strategy != "triple_balance" || run.Query != "max" {
		t.Errorf("unexpected configuration %s/%s", run.Strategy, run.Query)
	}

	// The clusters are separable, so every inclusion is found straight after the priors.
	inc := run.Inclusions()
	if inc[5] != 5 {
		t.Errorf("expected every inclusion after reading 6 papers, found %d", inc[5])
	}
	if inc[len(inc)-1] != 5 {
		t.Errorf("expected 5 inclusions, got %d", inc[len(inc)-1])
	}
}

func TestSimulateReproducible(t *testing.T) {
	d := twoClusters(5, 45)
	for _, kind := range []learning.StrategyKind{learning.Full, learning.Undersample, learning.TripleBalance} {
		c := learning.DefaultBalanceConfig()
		c.Strategy = kind
		b, err := learning.NewBalanceStrategy(c)
		if err != nil {
			t.Fatal(err)
		}
		opts := []func(*sieve.Simulation){sieve.BalanceStrategy(b), sieve.Seed(42), sieve.QueryStrategy(rank.MixedQuery{MaxFraction: 0.5}), sieve.Instances(3)}

		r1, err := sieve.NewSimulation(d, opts...).Simulate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		r2, err := sieve.NewSimulation(d, opts...).Simulate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if r1.ID != r2.ID {
			t.Errorf("%s: expected identical ids, got %s and %s", kind, r1.ID, r2.ID)
		}
		if !reflect.DeepEqual(r1.Order, r2.Order) || !reflect.DeepEqual(r1.TrainSizes, r2.TrainSizes) {
			t.Errorf("%s: expected identical runs for the same seed", kind)
		}

		r3, err := sieve.NewSimulation(d, append(opts, sieve.Seed(43))...).Simulate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if r1.ID == r3.ID {
			t.Errorf("%s: expected a different id for a different seed", kind)
		}
	}
}

func TestSimulateMaxRounds(t *testing.T) {
	d := twoClusters(5, 45)
	var calls []int
	sim := sieve.NewSimulation(d, sieve.MaxRounds(4), sieve.Instances(2), sieve.Progress(func(labelled, total int) {
		if total != 50 {
			t.Errorf("expected a total of 50, got %d", total)
		}
		calls = append(calls, labelled)
	}))
	run, err := sim.Simulate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(run.Order) != 2+4*2 {
		t.Errorf("expected 10 labelled papers, got %d", len(run.Order))
	}
	if !reflect.DeepEqual(calls, []int{4, 6, 8, 10}) {
		t.Errorf("unexpected progress %v", calls)
	}
	if len(run.Relevance) != 50 {
		t.Errorf("expected the last relevance scores to be kept, got %d", len(run.Relevance))
	}
}

func TestSimulateFallback(t *testing.T) {
	d := twoClusters(5, 45)
	undersample, err := learning.NewBalanceStrategy(learning.BalanceConfig{
		Strategy:    learning.Undersample,
		Undersample: learning.DefaultUndersampleConfig(),
	})
	if err != nil {
		t.Fatal(err)
	}

	// Without prior exclusions undersampling is impossible until an excluded paper is found.
	run, err := sieve.NewSimulation(d,
		sieve.BalanceStrategy(undersample),
		sieve.PriorKnowledge(1, 0),
		sieve.MaxRounds(3),
	).Simulate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if run.Fallbacks == 0 {
		t.Error("expected at least one fallback")
	}
	if run.TrainSizes[0] != 1 {
		t.Errorf("expected the first round to train on the single labelled paper, got %d", run.TrainSizes[0])
	}

	// Without fallback and without any labelled papers the simulation screens at random.
	run, err = sieve.NewSimulation(d,
		sieve.BalanceStrategy(undersample),
		sieve.PriorKnowledge(0, 0),
		sieve.Fallback(false),
		sieve.MaxRounds(2),
	).Simulate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(run.TrainSizes, []int{0, 0}) {
		t.Errorf("expected no training in the first round, got %v", run.TrainSizes)
	}
	if len(run.Order) != 2 {
		t.Errorf("expected 2 labelled papers, got %d", len(run.Order))
	}
}

func TestSimulateInsufficientPrior(t *testing.T) {
	d := twoClusters(5, 45)
	_, err := sieve.NewSimulation(d, sieve.PriorKnowledge(6, 1)).Simulate(context.Background())
	if _, ok := err.(*learning.InsufficientDataError); !ok {
		t.Fatalf("expected insufficient data, got %v", err)
	}
}

func TestSimulateCancelled(t *testing.T) {
	d := twoClusters(5, 45)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run, err := sieve.NewSimulation(d).Simulate(ctx)
	if err != context.Canceled {
		t.Fatalf("expected the context error, got %v", err)
	}
	if run.NInitial != 2 || len(run.Order) != 2 {
		t.Errorf("expected only the prior knowledge to be labelled, got %v", run.Order)
	}
}

func TestSimulateAll(t *testing.T) {
	d := twoClusters(5, 45)
	var sims []sieve.Simulation
	for seed := int64(0); seed < 6; seed++ {
		sims = append(sims, sieve.NewSimulation(d, sieve.Seed(seed), sieve.MaxRounds(5)))
	}

	c := make(chan sieve.SimulationResult)
	go sieve.SimulateAll(context.Background(), sims, 3, c)
	runs := make(map[int64][]int)
	for result := range c {
		if result.Error != nil {
			t.Fatal(result.Error)
		}
		runs[result.Run.Seed] = result.Run.Order
	}
	if len(runs) != len(sims) {
		t.Fatalf("expected %d runs, got %d", len(sims), len(runs))
	}

	// Concurrency does not change the outcome of a run.
	for _, sim := range sims {
		run, err := sim.Simulate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(run.Order, runs[sim.Seed]) {
			t.Errorf("seed %d: concurrent run differs from sequential run", sim.Seed)
		}
	}
}

func load(t *testing.T, s string) *properties.Properties {
	p, err := properties.LoadString(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadSimulation(t *testing.T) {
	d := twoClusters(5, 45)
	p := load(t, `
balance_param.strategy = undersample
balance_param.ratio = 0.5
simulate_param.n_instances = 5
simulate_param.n_queries = 3
simulate_param.n_prior_included = 2
simulate_param.n_prior_excluded = 3
simulate_param.seed = 7
simulate_param.query_strategy = random
simulate_param.fallback = false
`)
	sim, err := sieve.LoadSimulation(d, p)
	if err != nil {
		t.Fatal(err)
	}
	if sim.Balance.Kind() != learning.Undersample {
		t.Errorf("expected undersample, got %s", sim.Balance.Kind())
	}
	if sim.NInstances != 5 || sim.MaxRounds != 3 || sim.NPriorIncluded != 2 || sim.NPriorExcluded != 3 {
		t.Errorf("unexpected simulation parameters %+v", sim)
	}
	if sim.Seed != 7 || sim.Query.Name() != "random" || sim.Fallback {
		t.Errorf("unexpected simulation parameters %+v", sim)
	}

	// Options override the file.
	sim, err = sieve.LoadSimulation(d, p, sieve.Seed(9))
	if err != nil {
		t.Fatal(err)
	}
	if sim.Seed != 9 {
		t.Errorf("expected seed 9, got %d", sim.Seed)
	}

	for _, s := range []string{
		"simulate_param.n_instances = 0",
		"simulate_param.n_instances = many",
		"simulate_param.seed = x",
		"simulate_param.query_strategy = oracle",
		"simulate_param.fallback = perhaps",
		"balance_param.zero_max_c = 2",
	} {
		_, err := sieve.LoadSimulation(d, load(t, s))
		if _, ok := err.(*learning.ConfigurationError); !ok {
			t.Errorf("%s: expected a configuration error, got %v", s, err)
		}
	}
}

func TestNewSimulationDefaults(t *testing.T) {
	sim := sieve.NewSimulation(twoClusters(5, 45))
	expected, err := learning.NewBalanceStrategy(learning.DefaultBalanceConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sim.Balance, expected) {
		t.Fatalf("expected the default triple balance parameters, got %+v", sim.Balance)
	}
	tb, ok := sim.Balance.(learning.TripleBalanceSampler)
	if !ok {
		t.Fatalf("expected triple balance, got %s", sim.Balance.Kind())
	}
	// Halfway through a review with ten inclusions the default parameters ask for excluded papers.
	if targets := tb.Targets(10, 0.5); targets.Excluded == 0 || targets.Repeat < 1 {
		t.Errorf("unexpected targets %+v", targets)
	}
	if sim.NPriorIncluded != 1 || sim.NPriorExcluded != 1 || sim.NInstances != 1 || !sim.Fallback {
		t.Errorf("unexpected defaults %+v", sim)
	}
}
