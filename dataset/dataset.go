// Package dataset reads the papers of a review from a CSV file.
//
// A dataset file has a header with (at least) the columns id, label, and features. The
// features column is a space separated vector of numbers, for example:
//
//	id,label,features
//	25911231,1,0.12 0.5 0 1.3
//	25911232,0,0 0.1 0.7 0
package dataset

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/hscells/sieve/learning"
	"github.com/hscells/trecresults"
	"github.com/pkg/errors"
)

// Vector is a feature vector stored in a single CSV column.
type Vector []float64

// UnmarshalCSV parses a space separated vector.
func (v *Vector) UnmarshalCSV(s string) error {
	fields := strings.Fields(s)
	x := make(Vector, len(fields))
	for i, f := range fields {
		var err error
		x[i], err = strconv.ParseFloat(f, 64)
		if err != nil {
			return err
		}
	}
	*v = x
	return nil
}

// MarshalCSV writes the vector space separated.
func (v Vector) MarshalCSV() (string, error) {
	s := make([]string, len(v))
	for i, f := range v {
		s[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strings.Join(s, " "), nil
}

type record struct {
	ID       string `csv:"id"`
	Label    string `csv:"label"`
	Features Vector `csv:"features"`
}

// Dataset is a named collection of papers along with their true labels.
type Dataset struct {
	Name   string
	Papers []learning.Paper
}

// Read parses a dataset from r.
func Read(name string, r io.Reader) (Dataset, error) {
	var records []*record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return Dataset{}, errors.Wrapf(err, "reading dataset %s", name)
	}

	d := Dataset{Name: name, Papers: make([]learning.Paper, len(records))}
	for i, rec := range records {
		l, err := learning.ParseLabel(rec.Label)
		if err != nil {
			return Dataset{}, errors.Wrapf(err, "paper %s of dataset %s", rec.ID, name)
		}
		d.Papers[i] = learning.Paper{ID: rec.ID, Features: rec.Features, Label: l}
	}
	return d, nil
}

// Load reads a dataset file. The name of the dataset is the file name without extension.
func Load(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Read(name, f)
}

// Write outputs the dataset as CSV.
func (d Dataset) Write(w io.Writer) error {
	records := make([]*record, len(d.Papers))
	for i, p := range d.Papers {
		label := strconv.Itoa(int(p.Label))
		if p.Label == learning.Unlabelled {
			label = ""
		}
		records[i] = &record{ID: p.ID, Label: label, Features: p.Features}
	}
	return gocsv.Marshal(records, w)
}

// Labels are the true labels of the papers.
func (d Dataset) Labels() []learning.Label {
	l := make([]learning.Label, len(d.Papers))
	for i, p := range d.Papers {
		l[i] = p.Label
	}
	return l
}

// Pool creates a pool of the papers with every label hidden.
func (d Dataset) Pool() (*learning.Pool, error) {
	papers := make([]learning.Paper, len(d.Papers))
	for i, p := range d.Papers {
		papers[i] = learning.Paper{ID: p.ID, Features: p.Features, Label: learning.Unlabelled}
	}
	return learning.NewPool(papers)
}

// Oracle answers with the true labels of the dataset.
func (d Dataset) Oracle() learning.Oracle {
	return oracle(d.Labels())
}

type oracle []learning.Label

func (o oracle) Label(i int) (learning.Label, error) {
	if i < 0 || i >= len(o) {
		return learning.Unlabelled, errors.Errorf("paper index %d out of range", i)
	}
	if o[i] == learning.Unlabelled {
		return learning.Unlabelled, errors.Errorf("paper %d has no known label", i)
	}
	return o[i], nil
}

// Qrels are the relevance assessments of the dataset for use with evaluation measures.
func (d Dataset) Qrels(topic string) trecresults.Qrels {
	qrels := make(trecresults.Qrels)
	for _, p := range d.Papers {
		if p.Label == learning.Unlabelled {
			continue
		}
		qrels[p.ID] = &trecresults.Qrel{
			Topic:     topic,
			Iteration: "0",
			DocId:     p.ID,
			Score:     int64(p.Label),
		}
	}
	return qrels
}
