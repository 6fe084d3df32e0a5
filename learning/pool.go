package learning

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Label is the screening decision made for a paper.
type Label int

const (
	Unlabelled Label = -1
	Excluded   Label = 0
	Included   Label = 1
)

func (l Label) String() string {
	switch l {
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	default:
		return "unlabelled"
	}
}

// ParseLabel reads a label as it appears in a dataset file.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "-1", "unlabelled", "unlabeled":
		return Unlabelled, nil
	case "0", "excluded":
		return Excluded, nil
	case "1", "included":
		return Included, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v > 0 {
			return Included, nil
		}
		return Excluded, nil
	}
	return Unlabelled, fmt.Errorf("%q is not a label", s)
}

// Paper is a single record of a dataset under review.
type Paper struct {
	ID       string
	Features []float64
	Label    Label
}

// Pool holds every paper of a dataset along with the order labels were obtained in.
type Pool struct {
	papers   []Paper
	labelled []int
	dim      int
}

// NewPool creates a pool from the papers of a dataset. Papers that already carry a label are
// considered labelled in the order they appear.
func NewPool(papers []Paper) (*Pool, error) {
	p := &Pool{
		papers: make([]Paper, len(papers)),
	}
	seen := make(map[string]bool, len(papers))
	for i, paper := range papers {
		if i == 0 {
			p.dim = len(paper.Features)
		} else if len(paper.Features) != p.dim {
			return nil, errors.Errorf("paper %s has %d features, expected %d", paper.ID, len(paper.Features), p.dim)
		}
		if seen[paper.ID] {
			return nil, errors.Errorf("duplicate paper id %s", paper.ID)
		}
		seen[paper.ID] = true

		// Copy so that callers cannot change a record underneath the pool.
		f := make([]float64, len(paper.Features))
		copy(f, paper.Features)
		p.papers[i] = Paper{ID: paper.ID, Features: f, Label: paper.Label}
		if paper.Label != Unlabelled {
			p.labelled = append(p.labelled, i)
		}
	}
	return p, nil
}

// SetLabel records the label for the i-th paper. A paper can only be labelled once.
func (p *Pool) SetLabel(i int, l Label) error {
	if i < 0 || i >= len(p.papers) {
		return errors.Errorf("paper index %d out of range [0, %d)", i, len(p.papers))
	}
	if l == Unlabelled {
		return errors.Errorf("cannot unlabel paper %s", p.papers[i].ID)
	}
	if p.papers[i].Label != Unlabelled {
		return errors.Errorf("paper %s is already labelled %s", p.papers[i].ID, p.papers[i].Label)
	}
	p.papers[i].Label = l
	p.labelled = append(p.labelled, i)
	return nil
}

// Len is the number of papers in the pool, labelled or not.
func (p *Pool) Len() int {
	return len(p.papers)
}

// Dim is the dimensionality of the feature vectors.
func (p *Pool) Dim() int {
	return p.dim
}

// Paper returns the i-th paper.
func (p *Pool) Paper(i int) Paper {
	return p.papers[i]
}

// Labelled returns the indices of labelled papers in the order they were labelled.
func (p *Pool) Labelled() []int {
	l := make([]int, len(p.labelled))
	copy(l, p.labelled)
	return l
}

// Included returns the indices of included papers in labelled order.
func (p *Pool) Included() []int {
	return p.withLabel(Included)
}

// Excluded returns the indices of excluded papers in labelled order.
func (p *Pool) Excluded() []int {
	return p.withLabel(Excluded)
}

func (p *Pool) withLabel(l Label) []int {
	var idx []int
	for _, i := range p.labelled {
		if p.papers[i].Label == l {
			idx = append(idx, i)
		}
	}
	return idx
}

// Unlabelled returns the indices of papers without a label in dataset order.
func (p *Pool) Unlabelled() []int {
	var idx []int
	for i, paper := range p.papers {
		if paper.Label == Unlabelled {
			idx = append(idx, i)
		}
	}
	return idx
}

// Progress is the fraction of the pool that has been labelled.
func (p *Pool) Progress() float64 {
	if len(p.papers) == 0 {
		return 0
	}
	return float64(len(p.labelled)) / float64(len(p.papers))
}

// Sample is a single row of a training set.
type Sample struct {
	Index    int
	Features []float64
	Label    Label
}

// TrainingSet is a resampled set of labelled papers ready to be given to a classifier.
type TrainingSet struct {
	Samples  []Sample
	Warnings []DegradedSamplingWarning
}

// Len is the number of rows in the training set.
func (t TrainingSet) Len() int {
	return len(t.Samples)
}

// Count is the number of rows with the label l.
func (t TrainingSet) Count(l Label) int {
	n := 0
	for _, s := range t.Samples {
		if s.Label == l {
			n++
		}
	}
	return n
}

// X returns the feature matrix of the training set.
func (t TrainingSet) X() [][]float64 {
	x := make([][]float64, len(t.Samples))
	for i, s := range t.Samples {
		x[i] = s.Features
	}
	return x
}

// Y returns the labels of the training set.
func (t TrainingSet) Y() []Label {
	y := make([]Label, len(t.Samples))
	for i, s := range t.Samples {
		y[i] = s.Label
	}
	return y
}

func (p *Pool) samples(idx []int) []Sample {
	s := make([]Sample, len(idx))
	for i, j := range idx {
		s[i] = Sample{Index: j, Features: p.papers[j].Features, Label: p.papers[j].Label}
	}
	return s
}
