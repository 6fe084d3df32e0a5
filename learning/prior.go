package learning

import (
	"math/rand"
)

// SamplePriorKnowledge draws the papers a reviewer already knows the labels of before the
// review starts: nIncluded included and nExcluded excluded papers, drawn without replacement.
// The included papers come first in the returned indices.
func SamplePriorKnowledge(labels []Label, nIncluded, nExcluded int, rng *rand.Rand) ([]int, error) {
	var inc, exc []int
	for i, l := range labels {
		switch l {
		case Included:
			inc = append(inc, i)
		case Excluded:
			exc = append(exc, i)
		}
	}

	if len(inc) < nIncluded || len(exc) < nExcluded {
		return nil, &InsufficientDataError{
			Strategy: "prior knowledge",
			Included: len(inc),
			Excluded: len(exc),
			Reason:   "not enough papers to draw the prior knowledge from",
		}
	}

	prior := make([]int, 0, nIncluded+nExcluded)
	for _, j := range rng.Perm(len(inc))[:nIncluded] {
		prior = append(prior, inc[j])
	}
	for _, j := range rng.Perm(len(exc))[:nExcluded] {
		prior = append(prior, exc[j])
	}
	return prior, nil
}
