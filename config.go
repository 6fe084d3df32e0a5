package sieve

import (
	"strconv"
	"strings"

	"github.com/hscells/sieve/dataset"
	"github.com/hscells/sieve/learning"
	"github.com/hscells/sieve/rank"
	"github.com/magiconair/properties"
)

const simulateSection = "simulate_param."

// LoadSimulation configures a simulation of the dataset from the balance_param and
// simulate_param sections of a properties file. Options are applied after the file, so they
// take precedence over it.
func LoadSimulation(d dataset.Dataset, p *properties.Properties, options ...func(*Simulation)) (Simulation, error) {
	bc, err := learning.LoadBalanceConfig(p)
	if err != nil {
		return Simulation{}, err
	}
	balance, err := learning.NewBalanceStrategy(bc)
	if err != nil {
		return Simulation{}, err
	}

	opts := []func(*Simulation){BalanceStrategy(balance)}

	ints := map[string]func(int) func(*Simulation){
		"n_instances": Instances,
		"n_queries":   MaxRounds,
	}
	for key, option := range ints {
		s, ok := p.Get(simulateSection + key)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || v < 0 {
			return Simulation{}, &learning.ConfigurationError{Key: key, Value: s, Reason: "not a non-negative integer"}
		}
		opts = append(opts, option(v))
	}

	nInc, nExc := 1, 1
	for key, dst := range map[string]*int{"n_prior_included": &nInc, "n_prior_excluded": &nExc} {
		s, ok := p.Get(simulateSection + key)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || v < 0 {
			return Simulation{}, &learning.ConfigurationError{Key: key, Value: s, Reason: "not a non-negative integer"}
		}
		*dst = v
	}
	opts = append(opts, PriorKnowledge(nInc, nExc))

	if s, ok := p.Get(simulateSection + "seed"); ok {
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return Simulation{}, &learning.ConfigurationError{Key: "seed", Value: s, Reason: "not an integer"}
		}
		opts = append(opts, Seed(v))
	}

	if s, ok := p.Get(simulateSection + "query_strategy"); ok {
		q, err := rank.NewQueryStrategy(s)
		if err != nil {
			return Simulation{}, &learning.ConfigurationError{Key: "query_strategy", Value: s, Reason: err.Error()}
		}
		opts = append(opts, QueryStrategy(q))
	}

	if s, ok := p.Get(simulateSection + "fallback"); ok {
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return Simulation{}, &learning.ConfigurationError{Key: "fallback", Value: s, Reason: "not a boolean"}
		}
		opts = append(opts, Fallback(v))
	}

	sim := NewSimulation(d, append(opts, options...)...)
	if sim.NInstances < 1 {
		return Simulation{}, &learning.ConfigurationError{Key: "n_instances", Value: strconv.Itoa(sim.NInstances), Reason: "must be at least 1"}
	}
	return sim, nil
}
