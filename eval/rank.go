package eval

import (
	"fmt"
	"math"

	"github.com/hscells/trecresults"
)

// NDCG is normalised discounted cumulative gain of a reading order, cut at K (0 for no cut).
type NDCG struct{ K int }

type ap struct{}
type lastRelevant struct{}

var (
	// AP is the average precision of a reading order.
	AP = ap{}
	// LastRelevant is the position of the last relevant document in a reading order, or 0 if
	// none are relevant.
	LastRelevant = lastRelevant{}
)

func (ap) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	rel := NumRel.Score(results, qrels)
	if rel == 0 {
		return 0
	}
	var sum, found float64
	for i, result := range *results {
		if relevant(qrels, result.DocId) {
			found++
			sum += found / float64(i+1)
		}
	}
	return sum / rel
}

func (ap) Name() string {
	return "AP"
}

func dcg(results trecresults.ResultList, qrels trecresults.Qrels, k int) float64 {
	var score float64
	for i, result := range results {
		if k != 0 && i >= k {
			break
		}
		if relevant(qrels, result.DocId) {
			score += 1 / math.Log2(float64(i)+2)
		}
	}
	return score
}

// Score compares the gain of the reading order to an ideal order that reads every relevant
// document first.
func (e NDCG) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	rel := int(NumRel.Score(results, qrels))
	var idcg float64
	for i := 0; i < rel && (e.K == 0 || i < e.K); i++ {
		idcg += 1 / math.Log2(float64(i)+2)
	}
	if idcg == 0 {
		return 0
	}
	return dcg(*results, qrels, e.K) / idcg
}

func (e NDCG) Name() string {
	if e.K > 0 {
		return fmt.Sprintf("nDCG@%d", e.K)
	}
	return "nDCG"
}

func (lastRelevant) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	last := 0
	for i, result := range *results {
		if relevant(qrels, result.DocId) {
			last = i + 1
		}
	}
	return float64(last)
}

func (lastRelevant) Name() string {
	return "LastRel"
}
