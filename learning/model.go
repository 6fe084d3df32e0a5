package learning

import (
	"math/rand"
)

// Classifier is retrained on a balanced training set every round and then scores the papers
// of the pool.
type Classifier interface {
	// Fit must train the classifier from scratch.
	Fit(t TrainingSet) error
	// Predict must score every paper of the pool (labelled or not) by its relevance.
	Predict(pool *Pool) ([]float64, error)
}

// QueryStrategy picks the next papers to show the reviewer.
type QueryStrategy interface {
	// Query returns at most n unlabelled papers to label next.
	Query(pool *Pool, relevance []float64, n int, rng *rand.Rand) ([]int, error)
	Name() string
}

// Oracle supplies the label of a paper.
type Oracle interface {
	Label(i int) (Label, error)
}
