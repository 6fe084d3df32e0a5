package learning

import (
	"fmt"
	"math/rand"
	"strings"
)

// StrategyKind enumerates the balance strategies.
type StrategyKind int

const (
	Full StrategyKind = iota
	Undersample
	TripleBalance
)

var strategyNames = map[StrategyKind]string{
	Full:          "full",
	Undersample:   "undersample",
	TripleBalance: "triple_balance",
}

func (k StrategyKind) String() string {
	if s, ok := strategyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("StrategyKind(%d)", int(k))
}

// ParseStrategyKind converts a strategy name from a configuration file into a kind.
func ParseStrategyKind(s string) (StrategyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "simple":
		return Full, nil
	case "undersample":
		return Undersample, nil
	case "triple_balance", "triple":
		return TripleBalance, nil
	}
	return Full, &ConfigurationError{Key: "strategy", Value: s, Reason: "unknown balance strategy"}
}

// NewBalanceStrategy constructs the strategy selected in the configuration, validating its
// parameters.
func NewBalanceStrategy(c BalanceConfig) (BalanceStrategy, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Strategy {
	case Full:
		return FullSampler{}, nil
	case Undersample:
		return UndersampleSampler{config: c.Undersample}, nil
	case TripleBalance:
		return TripleBalanceSampler{config: c.TripleBalance}, nil
	}
	return nil, &ConfigurationError{Key: "strategy", Value: c.Strategy.String(), Reason: "unknown balance strategy"}
}

// NewRound creates the per-round arguments for a strategy. Shuffling defaults to the value
// configured for the strategy.
func NewRound(s BalanceStrategy, rng *rand.Rand, relevance []float64) Round {
	r := Round{Rand: rng, Relevance: relevance}
	switch v := s.(type) {
	case FullSampler:
	case UndersampleSampler:
		r.Shuffle = v.config.Shuffle
	case TripleBalanceSampler:
		r.Shuffle = v.config.Shuffle
	}
	return r
}
