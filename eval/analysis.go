package eval

import (
	"sort"

	"github.com/hscells/sieve/learning"
	"github.com/hscells/sieve/state"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Format is the unit the inclusion curves are reported in.
type Format int

const (
	// Fraction reports papers read and papers found as fractions in [0, 1].
	Fraction Format = iota
	// Percentage reports papers read and papers found as percentages in [0, 100].
	Percentage
	// Number reports the number of papers read and found.
	Number
)

// Curve is the average number of inclusions found after each paper read, over every run.
type Curve struct {
	X   []float64
	Y   []float64
	Err []float64
}

// Analysis compares several simulated runs of the same dataset.
type Analysis struct {
	runs   []state.Run
	labels []learning.Label

	avg          []float64
	err          []float64
	incAfterInit int
	nInitial     int
}

// NewAnalysis creates an analysis of runs that share a dataset.
func NewAnalysis(runs []state.Run) (*Analysis, error) {
	if len(runs) == 0 {
		return nil, errors.New("no runs to analyse")
	}
	a := &Analysis{runs: runs, labels: runs[0].Labels}
	for _, r := range runs[1:] {
		if len(r.Labels) != len(a.labels) {
			return nil, errors.Errorf("run %s has %d papers, expected %d", r.ID, len(r.Labels), len(a.labels))
		}
	}
	a.inclusionsFound()
	return a, nil
}

// ReadingOrder is the order the papers of the run would be read: every labelled paper, then
// the rest by their last relevance.
func ReadingOrder(r state.Run) []int {
	seen := make(map[int]bool, len(r.Labels))
	order := make([]int, 0, len(r.Labels))
	for _, i := range r.Order {
		if !seen[i] {
			seen[i] = true
			order = append(order, i)
		}
	}
	var rest []int
	for i := range r.Labels {
		if !seen[i] {
			rest = append(rest, i)
		}
	}
	if len(r.Relevance) == len(r.Labels) {
		sort.SliceStable(rest, func(i, j int) bool {
			return r.Relevance[rest[i]] > r.Relevance[rest[j]]
		})
	}
	return append(order, rest...)
}

// findInclusions counts the inclusions found after each paper read past the prior knowledge.
func findInclusions(r state.Run, labels []learning.Label) (inclusions []float64, incAfterInit, nInitial int) {
	var cur, initInc int
	for i, j := range ReadingOrder(r) {
		inc := 0
		if labels[j] == learning.Included {
			inc = 1
		}
		if i < r.NInitial {
			initInc += inc
			nInitial++
			continue
		}
		cur += inc
		inclusions = append(inclusions, float64(cur))
	}
	for _, l := range labels {
		if l == learning.Included {
			incAfterInit++
		}
	}
	return inclusions, incAfterInit - initInc, nInitial
}

func (a *Analysis) inclusionsFound() {
	found := make([][]float64, len(a.runs))
	for i, r := range a.runs {
		found[i], _, _ = findInclusions(r, a.labels)
	}
	// Every run uses the same amount of prior knowledge, so the first run normalises all of
	// them.
	_, a.incAfterInit, a.nInitial = findInclusions(a.runs[0], a.labels)

	for i := 0; ; i++ {
		var vals []float64
		for _, f := range found {
			if i < len(f) {
				vals = append(vals, f[i])
			}
		}
		if len(vals) == 0 {
			break
		}
		a.avg = append(a.avg, stat.Mean(vals, nil))
		if len(a.runs) == 1 || len(vals) == 1 {
			a.err = append(a.err, 0)
		} else {
			a.err = append(a.err, stat.StdErr(stat.StdDev(vals, nil), float64(len(vals))))
		}
	}
}

// InclusionsFound returns the inclusion curve, excluding the prior knowledge.
func (a *Analysis) InclusionsFound(format Format) Curve {
	xNorm := float64(len(a.labels) - a.nInitial)
	yNorm := float64(a.incAfterInit)
	switch format {
	case Percentage:
		xNorm /= 100
		yNorm /= 100
	case Number:
		xNorm, yNorm = 1, 1
	}
	if xNorm == 0 {
		xNorm = 1
	}
	if yNorm == 0 {
		yNorm = 1
	}

	c := Curve{
		X:   make([]float64, len(a.avg)),
		Y:   make([]float64, len(a.avg)),
		Err: make([]float64, len(a.avg)),
	}
	for i := range a.avg {
		c.X[i] = float64(i) / xNorm
		c.Y[i] = a.avg[i] / yNorm
		c.Err[i] = a.err[i] / yNorm
	}
	return c
}

// WSS is the work saved over sampling (in percent) once val percent of the inclusions have
// been found. It is false if the recall is never reached.
func (a *Analysis) WSS(val float64) (float64, bool) {
	c := a.InclusionsFound(Percentage)
	for i := range c.Y {
		if c.Y[i] >= val-1e-6 {
			return c.Y[i] - c.X[i], true
		}
	}
	return 0, false
}

// RRF is the percentage of relevant references found after reading val percent of the papers.
// It is false if fewer papers were read.
func (a *Analysis) RRF(val float64) (float64, bool) {
	c := a.InclusionsFound(Percentage)
	for i := range c.X {
		if c.X[i] >= val-1e-6 {
			return c.Y[i], true
		}
	}
	return 0, false
}

// AvgTimeToDiscovery returns, for each included paper, the average position in the reading
// order it was found at over every run. Runs where the paper was part of the prior knowledge
// are ignored; a paper that was always prior knowledge has a time of 0.
func (a *Analysis) AvgTimeToDiscovery() map[int]float64 {
	times := make(map[int][]float64)
	for i, l := range a.labels {
		if l == learning.Included {
			times[i] = nil
		}
	}
	for _, r := range a.runs {
		for t, j := range ReadingOrder(r) {
			if _, ok := times[j]; ok && t >= r.NInitial {
				times[j] = append(times[j], float64(t))
			}
		}
	}

	results := make(map[int]float64, len(times))
	for i, t := range times {
		if len(t) == 0 {
			results[i] = 0
			continue
		}
		results[i] = stat.Mean(t, nil)
	}
	return results
}
