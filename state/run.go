package state

import (
	"time"

	"github.com/hscells/sieve/learning"
)

// Run is the record of a single simulated review.
type Run struct {
	ID       string
	Dataset  string
	Seed     int64
	Strategy string
	Query    string
	Created  time.Time

	// Labels are the true labels of every paper in the dataset.
	Labels []learning.Label
	// Order contains the papers in the order they were labelled. The first NInitial papers
	// are the prior knowledge.
	Order    []int
	NInitial int
	// TrainSizes is the size of the training set in each round.
	TrainSizes []int
	// Fallbacks counts the rounds that could not use the configured balance strategy.
	Fallbacks int
	// Warnings counts degraded sampling warnings over all rounds.
	Warnings int
	// Relevance is the last relevance score of every paper.
	Relevance []float64
}

// Inclusions returns the number of included papers found after each labelled paper.
func (r Run) Inclusions() []int {
	found := make([]int, len(r.Order))
	n := 0
	for i, j := range r.Order {
		if r.Labels[j] == learning.Included {
			n++
		}
		found[i] = n
	}
	return found
}
