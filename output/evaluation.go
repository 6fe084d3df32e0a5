package output

import (
	"encoding/json"

	"gonum.org/v1/gonum/stat"
)

// MeanKey is the key the mean of every measure is stored under by the evaluation formatters.
const MeanKey = "mean"

// EvaluationFormatter outputs the evaluation of reading orders, keyed by run and measure.
type EvaluationFormatter func(map[string]map[string]float64) (string, error)

// MeanEvaluation averages each measure over every run.
func MeanEvaluation(scores map[string]map[string]float64) map[string]float64 {
	values := make(map[string][]float64)
	for _, measures := range scores {
		for name, v := range measures {
			values[name] = append(values[name], v)
		}
	}
	mean := make(map[string]float64, len(values))
	for name, v := range values {
		mean[name] = stat.Mean(v, nil)
	}
	return mean
}

// JsonEvaluationFormatter outputs evaluations in a JSON format, along with the mean of each
// measure over every run.
func JsonEvaluationFormatter(scores map[string]map[string]float64) (string, error) {
	m := make(map[string]map[string]float64, len(scores)+1)
	for run, measures := range scores {
		m[run] = measures
	}
	if len(scores) > 0 {
		m[MeanKey] = MeanEvaluation(scores)
	}
	v, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}
