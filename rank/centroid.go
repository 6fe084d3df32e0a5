package rank

import (
	"github.com/hscells/sieve/learning"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// CentroidClassifier scores papers by how much closer they are (in cosine similarity) to the
// centroid of the included papers than to the centroid of the excluded papers. It is a
// baseline used to drive simulations, not a serious model.
type CentroidClassifier struct {
	included []float64
	excluded []float64
}

// NewCentroidClassifier creates an untrained centroid classifier.
func NewCentroidClassifier() *CentroidClassifier {
	return &CentroidClassifier{}
}

func centroid(x [][]float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	c := make([]float64, len(x[0]))
	for _, v := range x {
		floats.Add(c, v)
	}
	floats.Scale(1/float64(len(x)), c)
	return c
}

func cosine(a, b []float64) float64 {
	if a == nil {
		return 0
	}
	n := floats.Norm(a, 2) * floats.Norm(b, 2)
	if n == 0 {
		return 0
	}
	return floats.Dot(a, b) / n
}

// Fit computes the centroids of the training set. Papers repeated in the training set weigh
// more.
func (c *CentroidClassifier) Fit(t learning.TrainingSet) error {
	var inc, exc [][]float64
	x, y := t.X(), t.Y()
	for i, l := range y {
		switch l {
		case learning.Included:
			inc = append(inc, x[i])
		case learning.Excluded:
			exc = append(exc, x[i])
		}
	}
	if len(inc) == 0 {
		return errors.New("cannot fit without included papers")
	}
	c.included = centroid(inc)
	c.excluded = centroid(exc)
	return nil
}

// Predict scores every paper of the pool.
func (c *CentroidClassifier) Predict(pool *learning.Pool) ([]float64, error) {
	if c.included == nil {
		return nil, errors.New("classifier has not been fit")
	}
	if len(c.included) != pool.Dim() {
		return nil, errors.Errorf("classifier was fit on %d features, pool has %d", len(c.included), pool.Dim())
	}
	scores := make([]float64, pool.Len())
	for i := range scores {
		x := pool.Paper(i).Features
		scores[i] = cosine(c.included, x) - cosine(c.excluded, x)
	}
	return scores, nil
}
