package learning

import (
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"github.com/xtgo/set"
)

// BalanceStrategy resamples the labelled papers of a pool into a training set. Strategies
// only read the pool; every call produces a fresh training set.
type BalanceStrategy interface {
	Resample(pool *Pool, round Round) (TrainingSet, error)
	Kind() StrategyKind
	sealed()
}

// Round contains the arguments that change between training rounds.
type Round struct {
	// Rand is the seeded random source used for every draw and shuffle.
	Rand *rand.Rand
	// Shuffle permutes the final order of the training set.
	Shuffle bool
	// Relevance is the score the current classifier assigns each paper of the pool, indexed
	// like the pool. Only triple balance uses it.
	Relevance []float64
}

// FullSampler uses every labelled paper, in the order they were labelled.
type FullSampler struct{}

func (FullSampler) sealed() {}

// Kind is Full.
func (FullSampler) Kind() StrategyKind {
	return Full
}

// Resample returns the labelled papers unchanged.
func (s FullSampler) Resample(pool *Pool, round Round) (TrainingSet, error) {
	inc := pool.Included()
	if len(inc) == 0 {
		return TrainingSet{}, &InsufficientDataError{
			Strategy: Full.String(),
			Excluded: len(pool.Excluded()),
			Reason:   "at least one included paper is required",
		}
	}
	return TrainingSet{Samples: pool.samples(pool.Labelled())}, nil
}

// UndersampleSampler removes excluded papers at random until the training set has the
// configured included:excluded ratio. It never oversamples the excluded papers.
type UndersampleSampler struct {
	config UndersampleConfig
}

func (UndersampleSampler) sealed() {}

// Kind is Undersample.
func (UndersampleSampler) Kind() StrategyKind {
	return Undersample
}

// NewUndersampleSampler creates an undersample strategy.
func NewUndersampleSampler(c UndersampleConfig) (UndersampleSampler, error) {
	if err := c.Validate(); err != nil {
		return UndersampleSampler{}, err
	}
	return UndersampleSampler{config: c}, nil
}

func (s UndersampleSampler) Resample(pool *Pool, round Round) (TrainingSet, error) {
	inc, exc := pool.Included(), pool.Excluded()
	if len(inc) == 0 || len(exc) == 0 {
		return TrainingSet{}, &InsufficientDataError{
			Strategy: Undersample.String(),
			Included: len(inc),
			Excluded: len(exc),
			Reason:   "at least one included and one excluded paper are required",
		}
	}
	if round.Rand == nil {
		return TrainingSet{}, errNoRand
	}

	target := count(float64(len(inc)) * (1 / s.config.Ratio))
	sampled := exc
	if target < len(exc) {
		sampled = drawWithoutReplacement(round.Rand, exc, target)
	}

	idx := make([]int, 0, len(inc)+len(sampled))
	idx = append(idx, inc...)
	idx = append(idx, sampled...)
	if round.Shuffle {
		shuffle(round.Rand, idx)
	}
	return TrainingSet{Samples: pool.samples(idx)}, nil
}

// TripleBalanceSampler balances the training set using three groups: the included papers, a
// random sample of excluded papers, and the excluded papers the classifier currently scores
// as most relevant. The size of each group depends on how far the review has progressed.
type TripleBalanceSampler struct {
	config TripleBalanceConfig
}

func (TripleBalanceSampler) sealed() {}

// Kind is TripleBalance.
func (TripleBalanceSampler) Kind() StrategyKind {
	return TripleBalance
}

// NewTripleBalanceSampler creates a triple balance strategy.
func NewTripleBalanceSampler(c TripleBalanceConfig) (TripleBalanceSampler, error) {
	if err := c.Validate(); err != nil {
		return TripleBalanceSampler{}, err
	}
	return TripleBalanceSampler{config: c}, nil
}

// TripleBalanceTargets are the sizes of the groups triple balance draws.
type TripleBalanceTargets struct {
	Repeat      int
	Excluded    int
	MaxExcluded int
	Random      int
}

// Targets computes the group sizes for nInc included papers when a fraction f of the pool has
// been labelled.
func (s TripleBalanceSampler) Targets(nInc int, f float64) TripleBalanceTargets {
	c := s.config
	t := TripleBalanceTargets{}

	t.Repeat = count(c.OneA * math.Pow(f, c.OneAlpha))
	if t.Repeat < 1 {
		t.Repeat = 1
	}

	wExc := c.ZeroB * math.Pow(f, c.ZeroBeta)
	t.Excluded = count(wExc * float64(nInc))

	fracMax := math.Min(1, math.Max(0, c.ZeroMaxC*math.Pow(f, c.ZeroMaxGamma)))
	t.MaxExcluded = count(float64(t.Excluded) * fracMax)
	t.Random = t.Excluded - t.MaxExcluded
	return t
}

func (s TripleBalanceSampler) Resample(pool *Pool, round Round) (TrainingSet, error) {
	inc, exc := pool.Included(), pool.Excluded()
	if len(inc) == 0 {
		return TrainingSet{}, &InsufficientDataError{
			Strategy: TripleBalance.String(),
			Excluded: len(exc),
			Reason:   "at least one included paper is required",
		}
	}

	t := s.Targets(len(inc), pool.Progress())
	if t.Excluded > 0 && len(exc) == 0 {
		return TrainingSet{}, &InsufficientDataError{
			Strategy: TripleBalance.String(),
			Included: len(inc),
			Reason:   "excluded papers are required but none are labelled",
		}
	}
	if round.Rand == nil {
		return TrainingSet{}, errNoRand
	}
	if round.Relevance != nil && len(round.Relevance) != pool.Len() {
		return TrainingSet{}, errors.Errorf("relevance has %d scores for a pool of %d papers", len(round.Relevance), pool.Len())
	}

	var warnings []DegradedSamplingWarning
	warn := func(w DegradedSamplingWarning) {
		log.Println(w)
		warnings = append(warnings, w)
	}

	if maxRepeat := maxTrainingSize / len(inc); t.Repeat > maxRepeat {
		if maxRepeat < 1 {
			maxRepeat = 1
		}
		warn(DegradedSamplingWarning{Group: "included", Requested: t.Repeat, Available: maxRepeat, Reason: "repetitions capped"})
		t.Repeat = maxRepeat
	}

	nMax, nRandom := t.MaxExcluded, t.Random
	if nMax > 0 && round.Relevance == nil {
		warn(DegradedSamplingWarning{Group: "max", Requested: nMax, Available: 0, Reason: "no relevance scores, drawing at random instead"})
		nRandom += nMax
		nMax = 0
	}
	if nMax > len(exc) {
		warn(DegradedSamplingWarning{Group: "max", Requested: nMax, Available: len(exc), Reason: "using every excluded paper"})
		nRandom += nMax - len(exc)
		nMax = len(exc)
	}
	maxExc := mostRelevant(exc, round.Relevance, nMax)

	candidates := difference(exc, maxExc)
	var randExc []int
	switch {
	case nRandom < len(candidates):
		randExc = drawWithoutReplacement(round.Rand, candidates, nRandom)
	case nRandom == len(candidates):
		randExc = candidates
	default:
		warn(DegradedSamplingWarning{Group: "random", Requested: nRandom, Available: len(candidates), Reason: "drawing with replacement"})
		from := candidates
		if len(from) == 0 {
			from = exc
		}
		extra := nRandom - len(candidates)
		if room := maxTrainingSize - len(candidates) - len(maxExc); extra > room {
			if room < 0 {
				room = 0
			}
			warn(DegradedSamplingWarning{Group: "random", Requested: nRandom, Available: len(candidates) + room, Reason: "draws with replacement capped"})
			extra = room
		}
		randExc = append(append([]int{}, candidates...), drawWithReplacement(round.Rand, from, extra)...)
	}

	idx := make([]int, 0, t.Repeat*len(inc)+len(randExc)+len(maxExc))
	for i := 0; i < t.Repeat; i++ {
		idx = append(idx, inc...)
	}
	idx = append(idx, randExc...)
	idx = append(idx, maxExc...)
	if round.Shuffle {
		shuffle(round.Rand, idx)
	}
	return TrainingSet{Samples: pool.samples(idx), Warnings: warnings}, nil
}

var errNoRand = errors.New("round has no random source")

const (
	// maxCount is the largest target count; larger targets saturate at it.
	maxCount = math.MaxInt32
	// maxTrainingSize bounds the rows triple balance produces by repetition or by drawing with
	// replacement.
	maxTrainingSize = 1 << 20
)

// count rounds v to the nearest non-negative integer, saturating at maxCount.
func count(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= maxCount {
		return maxCount
	}
	return int(math.Round(v))
}

// drawWithoutReplacement draws k of the candidates uniformly at random. The drawn papers keep
// the order they have in candidates.
func drawWithoutReplacement(rng *rand.Rand, candidates []int, k int) []int {
	pick := rng.Perm(len(candidates))[:k]
	sort.Ints(pick)
	out := make([]int, k)
	for i, j := range pick {
		out[i] = candidates[j]
	}
	return out
}

func drawWithReplacement(rng *rand.Rand, candidates []int, k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = candidates[rng.Intn(len(candidates))]
	}
	return out
}

func shuffle(rng *rand.Rand, idx []int) {
	rng.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
}

// mostRelevant returns the n papers with the highest relevance, ties broken by the order of
// idx.
func mostRelevant(idx []int, relevance []float64, n int) []int {
	if n == 0 {
		return nil
	}
	ranked := make([]int, len(idx))
	copy(ranked, idx)
	sort.SliceStable(ranked, func(i, j int) bool {
		return relevance[ranked[i]] > relevance[ranked[j]]
	})
	return ranked[:n]
}

// difference returns the papers of a that are not in b, in the order of a.
func difference(a, b []int) []int {
	if len(b) == 0 {
		return a
	}
	sa := set.Ints(append([]int{}, a...))
	sb := set.Ints(append([]int{}, b...))
	x := append(sa, sb...)
	diff := x[:set.Diff(sort.IntSlice(x), len(sa))]

	out := make([]int, 0, len(diff))
	for _, i := range a {
		if j := sort.SearchInts(diff, i); j < len(diff) && diff[j] == i {
			out = append(out, i)
		}
	}
	return out
}
