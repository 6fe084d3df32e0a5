package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/alexflint/go-arg"
	"github.com/go-errors/errors"
	"github.com/hscells/sieve/dataset"
	"github.com/hscells/sieve/eval"
	"github.com/hscells/sieve/output"
	"github.com/hscells/sieve/rank"
	"github.com/hscells/sieve/state"
	"github.com/hscells/trecresults"
)

var (
	name    = "analyse"
	version = "19.Oct.2026"
	author  = "Harry Scells"
)

type args struct {
	Curve      bool   `help:"include the inclusion curve (as a percentage) in the summary" arg:"-c"`
	CurveCSV   string `help:"write the inclusion curve of the first strategy to this csv file"`
	Evaluation bool   `help:"output the evaluation of each run's reading order instead of a summary" arg:"-e"`
	Dataset    string `help:"path to dataset csv" arg:"required,positional"`
	State      string `help:"directory runs are stored in" arg:"required,positional"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
@ %s
# %s`, name, author, version)
}

func fatal(err error) {
	fmt.Println(errors.Wrap(err, 0).ErrorStack())
	os.Exit(1)
}

var (
	wssRecall   = []float64{95, 100}
	rrfFraction = []float64{5, 10, 20}
	evaluators  = []eval.Evaluator{eval.NumRel, eval.NumRet, eval.Recall, eval.NNR, eval.AP, eval.NDCG{}, eval.LastRelevant, eval.WSS95, eval.WSS100, eval.RRF10}
)

func main() {
	var args args
	arg.MustParse(&args)

	d, err := dataset.Load(args.Dataset)
	if err != nil {
		fatal(err)
	}
	all, err := state.All(state.OpenDiskvRunStore(args.State))
	if err != nil {
		fatal(err)
	}

	// Only runs of this dataset, grouped by balance strategy.
	groups := make(map[string][]state.Run)
	var strategies []string
	for _, run := range all {
		if run.Dataset != d.Name {
			continue
		}
		if _, ok := groups[run.Strategy]; !ok {
			strategies = append(strategies, run.Strategy)
		}
		groups[run.Strategy] = append(groups[run.Strategy], run)
	}
	if len(strategies) == 0 {
		fatal(errors.Errorf("no runs of %s in %s", d.Name, args.State))
	}
	sort.Strings(strategies)

	if args.Evaluation {
		s, err := evaluate(d, all)
		if err != nil {
			fatal(err)
		}
		fmt.Println(s)
		return
	}

	var summaries []output.Summary
	for i, strategy := range strategies {
		a, err := eval.NewAnalysis(groups[strategy])
		if err != nil {
			fatal(err)
		}
		summary := output.Summary{
			Dataset:         d.Name,
			Strategy:        strategy,
			Runs:            len(groups[strategy]),
			WSS:             make(map[string]float64),
			RRF:             make(map[string]float64),
			TimeToDiscovery: make(map[string]float64),
		}
		for _, v := range wssRecall {
			if wss, ok := a.WSS(v); ok {
				summary.WSS[strconv.FormatFloat(v, 'f', -1, 64)] = wss
			}
		}
		for _, v := range rrfFraction {
			if rrf, ok := a.RRF(v); ok {
				summary.RRF[strconv.FormatFloat(v, 'f', -1, 64)] = rrf
			}
		}
		for j, t := range a.AvgTimeToDiscovery() {
			summary.TimeToDiscovery[d.Papers[j].ID] = t
		}

		c := a.InclusionsFound(eval.Percentage)
		curve := output.Curve{X: c.X, Y: c.Y, Err: c.Err}
		if args.Curve {
			summary.Curve = &curve
		}
		if i == 0 && len(args.CurveCSV) > 0 {
			s, err := output.CsvCurveFormatter(curve)
			if err != nil {
				fatal(err)
			}
			if err := writeFile(args.CurveCSV, s); err != nil {
				fatal(err)
			}
		}
		summaries = append(summaries, summary)
	}

	s, err := output.JsonFormatter(summaries)
	if err != nil {
		fatal(err)
	}
	fmt.Println(s)
}

// evaluate scores the reading order of every run of the dataset, treating each run as its
// own topic.
func evaluate(d dataset.Dataset, runs []state.Run) (string, error) {
	pool, err := d.Pool()
	if err != nil {
		return "", err
	}
	var results trecresults.ResultList
	qrels := trecresults.QrelsFile{Qrels: make(map[string]trecresults.Qrels)}
	for _, run := range runs {
		if run.Dataset != d.Name {
			continue
		}
		results = append(results, rank.ReadingOrder(pool, run.Order, run.Relevance, run.ID, run.Strategy)...)
		qrels.Qrels[run.ID] = d.Qrels(run.ID)
	}
	return output.JsonEvaluationFormatter(eval.Evaluate(evaluators, &results, qrels))
}

func writeFile(path, s string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(s)
	return err
}
