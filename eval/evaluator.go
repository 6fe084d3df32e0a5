package eval

import "github.com/hscells/trecresults"

// Evaluator is an interface for evaluating a ranked list of documents.
type Evaluator interface {
	Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64
	Name() string
}

// Evaluate scores documents using supplied evaluation measurements.
func Evaluate(evaluators []Evaluator, results *trecresults.ResultList, qrels trecresults.QrelsFile) map[string]map[string]float64 {
	// First create a map of topic->results
	resultMap := map[string]trecresults.ResultList{}
	for _, res := range *results {
		resultMap[res.Topic] = append(resultMap[res.Topic], res)
	}

	// Next create a map of topic->evaluator:score
	scores := map[string]map[string]float64{}
	for topic, resultList := range resultMap {
		scores[topic] = map[string]float64{}
		for _, evaluator := range evaluators {
			scores[topic][evaluator.Name()] = evaluator.Score(&resultList, qrels.Qrels[topic])
		}
	}

	return scores
}
