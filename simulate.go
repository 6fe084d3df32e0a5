// Package sieve simulates systematic review screening with active learning, rebalancing the
// training data of the classifier every round.
package sieve

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/hscells/sieve/dataset"
	"github.com/hscells/sieve/learning"
	"github.com/hscells/sieve/rank"
	"github.com/hscells/sieve/state"
	"github.com/pkg/errors"
)

// Simulation contains everything required to simulate the review of a dataset whose labels are
// already known.
type Simulation struct {
	Dataset       dataset.Dataset
	Balance       learning.BalanceStrategy
	NewClassifier func() learning.Classifier
	Query         learning.QueryStrategy
	Seed          int64

	NPriorIncluded int
	NPriorExcluded int
	// NInstances is the number of papers labelled each round.
	NInstances int
	// MaxRounds stops the simulation early; zero labels the whole dataset.
	MaxRounds int
	// Fallback trains on every labelled paper when the balance strategy has insufficient data.
	Fallback bool
	// Progress is called after each round with the number of labelled papers.
	Progress func(labelled, total int)
}

// BalanceStrategy sets the balance strategy of the simulation.
func BalanceStrategy(b learning.BalanceStrategy) func(*Simulation) {
	return func(s *Simulation) {
		s.Balance = b
	}
}

// Classifier sets how a classifier is created for the simulation.
func Classifier(f func() learning.Classifier) func(*Simulation) {
	return func(s *Simulation) {
		s.NewClassifier = f
	}
}

// QueryStrategy sets the query strategy of the simulation.
func QueryStrategy(q learning.QueryStrategy) func(*Simulation) {
	return func(s *Simulation) {
		s.Query = q
	}
}

// Seed sets the seed of the random source used throughout the simulation.
func Seed(seed int64) func(*Simulation) {
	return func(s *Simulation) {
		s.Seed = seed
	}
}

// PriorKnowledge sets the number of papers of each class known before the review starts.
func PriorKnowledge(included, excluded int) func(*Simulation) {
	return func(s *Simulation) {
		s.NPriorIncluded = included
		s.NPriorExcluded = excluded
	}
}

// Instances sets the number of papers labelled each round.
func Instances(n int) func(*Simulation) {
	return func(s *Simulation) {
		s.NInstances = n
	}
}

// MaxRounds stops the simulation after n rounds.
func MaxRounds(n int) func(*Simulation) {
	return func(s *Simulation) {
		s.MaxRounds = n
	}
}

// Fallback sets whether to train on every labelled paper when balancing is not possible.
func Fallback(fallback bool) func(*Simulation) {
	return func(s *Simulation) {
		s.Fallback = fallback
	}
}

// Progress sets a callback that is called after each round.
func Progress(f func(labelled, total int)) func(*Simulation) {
	return func(s *Simulation) {
		s.Progress = f
	}
}

// NewSimulation creates a simulation of the dataset. By default it uses triple balance, the
// centroid classifier, max query, one prior paper of each class and labels one paper a round.
func NewSimulation(d dataset.Dataset, options ...func(*Simulation)) Simulation {
	balance, err := learning.NewTripleBalanceSampler(learning.DefaultTripleBalanceConfig())
	if err != nil {
		panic(err)
	}
	s := Simulation{
		Dataset:        d,
		Balance:        balance,
		NewClassifier:  func() learning.Classifier { return rank.NewCentroidClassifier() },
		Query:          rank.MaxQuery{},
		NPriorIncluded: 1,
		NPriorExcluded: 1,
		NInstances:     1,
		Fallback:       true,
	}
	for _, option := range options {
		option(&s)
	}
	return s
}

// ID identifies the simulation by its dataset, seed and configuration, so that simulating the
// same configuration twice produces the same run.
func (s Simulation) ID() string {
	key := fmt.Sprintf("%s|%d|%s|%+v|%s|%d|%d|%d|%d|%v",
		s.Dataset.Name, s.Seed, s.Balance.Kind(), s.Balance, s.Query.Name(),
		s.NPriorIncluded, s.NPriorExcluded, s.NInstances, s.MaxRounds, s.Fallback)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// Simulate reviews the dataset, labelling papers with their true label in the order chosen
// by the query strategy. It stops when every paper is labelled, the maximum number of rounds
// is reached, or the context is cancelled (returning the partial run with the context error).
func (s Simulation) Simulate(ctx context.Context) (state.Run, error) {
	if s.Balance == nil || s.NewClassifier == nil || s.Query == nil {
		return state.Run{}, errors.New("simulation requires a balance strategy, classifier and query strategy")
	}
	if s.NInstances < 1 {
		return state.Run{}, errors.Errorf("cannot label %d papers a round", s.NInstances)
	}

	rng := rand.New(rand.NewSource(s.Seed))
	pool, err := s.Dataset.Pool()
	if err != nil {
		return state.Run{}, err
	}
	labels := s.Dataset.Labels()
	oracle := s.Dataset.Oracle()

	run := state.Run{
		ID:       s.ID(),
		Dataset:  s.Dataset.Name,
		Seed:     s.Seed,
		Strategy: s.Balance.Kind().String(),
		Query:    s.Query.Name(),
		Created:  time.Now(),
		Labels:   labels,
	}

	label := func(idx []int) error {
		for _, i := range idx {
			l, err := oracle.Label(i)
			if err != nil {
				return err
			}
			if err := pool.SetLabel(i, l); err != nil {
				return err
			}
			run.Order = append(run.Order, i)
		}
		return nil
	}

	prior, err := learning.SamplePriorKnowledge(labels, s.NPriorIncluded, s.NPriorExcluded, rng)
	if err != nil {
		return run, err
	}
	if err := label(prior); err != nil {
		return run, err
	}
	run.NInitial = len(prior)

	clf := s.NewClassifier()
	var relevance []float64
	for round := 0; s.MaxRounds == 0 || round < s.MaxRounds; round++ {
		if len(pool.Unlabelled()) == 0 {
			break
		}
		select {
		case <-ctx.Done():
			run.Relevance = relevance
			return run, ctx.Err()
		default:
		}

		query := s.Query
		ts, err := s.Balance.Resample(pool, learning.NewRound(s.Balance, rng, relevance))
		if _, ok := err.(*learning.InsufficientDataError); ok {
			log.Printf("round %d: %v\n", round, err)
			run.Fallbacks++
			if s.Fallback {
				ts, err = learning.FullSampler{}.Resample(pool, learning.Round{})
			}
		}
		switch err.(type) {
		case nil:
			run.TrainSizes = append(run.TrainSizes, ts.Len())
			run.Warnings += len(ts.Warnings)
			if err := clf.Fit(ts); err != nil {
				return run, errors.Wrapf(err, "round %d", round)
			}
			relevance, err = clf.Predict(pool)
			if err != nil {
				return run, errors.Wrapf(err, "round %d", round)
			}
		case *learning.InsufficientDataError:
			// Nothing to train on yet, so keep screening at random.
			run.TrainSizes = append(run.TrainSizes, 0)
			query = rank.RandomQuery{}
		default:
			return run, errors.Wrapf(err, "round %d", round)
		}

		idx, err := query.Query(pool, relevance, s.NInstances, rng)
		if err != nil {
			return run, errors.Wrapf(err, "round %d", round)
		}
		if err := label(idx); err != nil {
			return run, err
		}
		if s.Progress != nil {
			s.Progress(len(run.Order), pool.Len())
		}
	}

	run.Relevance = relevance
	return run, nil
}
