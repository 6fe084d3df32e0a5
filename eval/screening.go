package eval

import (
	"fmt"
	"math"

	"github.com/hscells/trecresults"
)

type recallEvaluator struct{}
type numRel struct{}
type numRet struct{}
type numRelRet struct{}
type numberNeededToRead struct{}

// WSSAt computes work saved over sampling once the reading order reaches a level of recall.
type WSSAt struct {
	Recall float64
}

// RRFAt computes the fraction of relevant documents found after reading a fraction of the
// reading order.
type RRFAt struct {
	Fraction float64
}

var (
	// Recall calculates recall.
	Recall = recallEvaluator{}
	// NumRel is the number of relevant documents.
	NumRel = numRel{}
	// NumRet is the number of retrieved documents.
	NumRet = numRet{}
	// NumRelRet is the number of relevant documents retrieved.
	NumRelRet = numRelRet{}
	// NNR computes the number of documents needed to read.
	// Or in other words, the gain required per relevant document.
	NNR = numberNeededToRead{}

	WSS95  = WSSAt{Recall: 0.95}
	WSS100 = WSSAt{Recall: 1}
	RRF10  = RRFAt{Fraction: 0.1}
)

func relevant(qrels trecresults.Qrels, docID string) bool {
	qrel, ok := qrels[docID]
	return ok && qrel.Score > 0
}

func (numRel) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	n := 0.0
	for _, qrel := range qrels {
		if qrel.Score > 0 {
			n++
		}
	}
	return n
}

func (numRel) Name() string {
	return "NumRel"
}

func (numRet) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	return float64(len(*results))
}

func (numRet) Name() string {
	return "NumRet"
}

func (numRelRet) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	n := 0.0
	for _, result := range *results {
		if relevant(qrels, result.DocId) {
			n++
		}
	}
	return n
}

func (numRelRet) Name() string {
	return "NumRelRet"
}

func (recallEvaluator) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	rel := NumRel.Score(results, qrels)
	if rel == 0 {
		return 0
	}
	return NumRelRet.Score(results, qrels) / rel
}

func (recallEvaluator) Name() string {
	return "Recall"
}

func (numberNeededToRead) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	return (NumRet.Score(results, qrels) + 1) / (NumRelRet.Score(results, qrels) + 1)
}

func (numberNeededToRead) Name() string {
	return "NNR"
}

// Score cuts the reading order at the first document where the recall is reached, and
// computes ((N - read) / N) - (1 - recall) at that point. The score is 0 if the recall is
// never reached.
func (w WSSAt) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	N := float64(len(*results))
	rel := NumRel.Score(results, qrels)
	if N == 0 || rel == 0 {
		return 0
	}
	found := 0.0
	for i, result := range *results {
		if relevant(qrels, result.DocId) {
			found++
		}
		recall := found / rel
		if recall >= w.Recall-1e-9 {
			return ((N - float64(i+1)) / N) - (1.0 - recall)
		}
	}
	return 0
}

func (w WSSAt) Name() string {
	return fmt.Sprintf("WSS@%v", w.Recall*100)
}

// Score is the recall after reading the first Fraction of the reading order.
func (r RRFAt) Score(results *trecresults.ResultList, qrels trecresults.Qrels) float64 {
	rel := NumRel.Score(results, qrels)
	if rel == 0 {
		return 0
	}
	n := int(math.Ceil(r.Fraction*float64(len(*results)) - 1e-9))
	if n > len(*results) {
		n = len(*results)
	}
	read := (*results)[:n]
	return NumRelRet.Score(&read, qrels) / rel
}

func (r RRFAt) Name() string {
	return fmt.Sprintf("RRF@%v", r.Fraction*100)
}
