package rank

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/hscells/sieve/learning"
	"github.com/pkg/errors"
)

// MaxQuery picks the unlabelled papers with the highest relevance.
type MaxQuery struct{}

// RandomQuery picks unlabelled papers at random.
type RandomQuery struct{}

// MixedQuery picks a fraction of the papers using MaxQuery and the rest at random.
type MixedQuery struct {
	MaxFraction float64
}

func (MaxQuery) Name() string {
	return "max"
}

func (RandomQuery) Name() string {
	return "random"
}

func (MixedQuery) Name() string {
	return "max_random"
}

// mostRelevant sorts the papers by relevance, highest first, ties by index.
func mostRelevant(idx []int, relevance []float64) []int {
	ranked := make([]int, len(idx))
	copy(ranked, idx)
	sort.SliceStable(ranked, func(i, j int) bool {
		return relevance[ranked[i]] > relevance[ranked[j]]
	})
	return ranked
}

func (MaxQuery) Query(pool *learning.Pool, relevance []float64, n int, rng *rand.Rand) ([]int, error) {
	if len(relevance) != pool.Len() {
		return nil, errors.Errorf("relevance has %d scores for a pool of %d papers", len(relevance), pool.Len())
	}
	ranked := mostRelevant(pool.Unlabelled(), relevance)
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func (RandomQuery) Query(pool *learning.Pool, relevance []float64, n int, rng *rand.Rand) ([]int, error) {
	u := pool.Unlabelled()
	if n > len(u) {
		n = len(u)
	}
	idx := make([]int, n)
	for i, j := range rng.Perm(len(u))[:n] {
		idx[i] = u[j]
	}
	return idx, nil
}

func (q MixedQuery) Query(pool *learning.Pool, relevance []float64, n int, rng *rand.Rand) ([]int, error) {
	if len(relevance) != pool.Len() {
		return nil, errors.Errorf("relevance has %d scores for a pool of %d papers", len(relevance), pool.Len())
	}
	ranked := mostRelevant(pool.Unlabelled(), relevance)
	if n > len(ranked) {
		n = len(ranked)
	}
	nMax := int(math.Round(float64(n) * q.MaxFraction))

	idx := append([]int{}, ranked[:nMax]...)
	rest := ranked[nMax:]
	for _, j := range rng.Perm(len(rest))[:n-nMax] {
		idx = append(idx, rest[j])
	}
	return idx, nil
}

// NewQueryStrategy returns the query strategy with the given name.
func NewQueryStrategy(name string) (learning.QueryStrategy, error) {
	switch strings.ToLower(name) {
	case "max", "":
		return MaxQuery{}, nil
	case "random", "rand":
		return RandomQuery{}, nil
	case "max_random", "mixed":
		return MixedQuery{MaxFraction: 0.95}, nil
	}
	return nil, errors.Errorf("unknown query strategy %s", name)
}
