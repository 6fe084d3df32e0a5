package rank

import (
	"sort"

	"github.com/hscells/merging"
	"github.com/hscells/sieve/learning"
	"github.com/hscells/trecresults"
)

// Ranking orders the unlabelled papers of the pool by relevance as a TREC run. Scores are
// min-max normalised; ties keep dataset order.
func Ranking(pool *learning.Pool, relevance []float64, topic, runName string) trecresults.ResultList {
	u := pool.Unlabelled()
	pos := make(map[string]int, len(u))
	list := make(trecresults.ResultList, len(u))
	min, max := 0.0, 0.0
	for i, j := range u {
		id := pool.Paper(j).ID
		pos[id] = j
		list[i] = &trecresults.Result{
			Topic:     topic,
			Iteration: "Q0",
			DocId:     id,
			Score:     relevance[j],
			RunName:   runName,
		}
		if i == 0 || relevance[j] < min {
			min = relevance[j]
		}
		if i == 0 || relevance[j] > max {
			max = relevance[j]
		}
	}
	if len(list) == 0 {
		return list
	}

	// A single distinct score has no range to normalise over.
	if max > min {
		norm := merging.MinMaxNorm
		items := merging.FromTRECResults(list)
		norm.Init(items)
		list = merging.Normalise(norm, items).TRECResults(topic)
	}

	sort.SliceStable(list, func(a, b int) bool {
		if list[a].Score != list[b].Score {
			return list[a].Score > list[b].Score
		}
		return pos[list[a].DocId] < pos[list[b].DocId]
	})
	for i := range list {
		list[i].Iteration = "Q0"
		list[i].Rank = int64(i + 1)
		list[i].RunName = runName
	}
	return list
}

// ReadingOrder is the order papers would be screened in: the papers in the order they were
// labelled, followed by the unlabelled papers as ranked by Ranking. Papers in neither follow
// in dataset order. Scores decrease with rank.
func ReadingOrder(pool *learning.Pool, order []int, relevance []float64, topic, runName string) trecresults.ResultList {
	seen := make(map[int]bool, len(order))
	idx := make([]int, 0, pool.Len())
	add := func(i int) {
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	for _, i := range order {
		add(i)
	}

	if len(relevance) == pool.Len() {
		index := make(map[string]int, pool.Len())
		for i := 0; i < pool.Len(); i++ {
			index[pool.Paper(i).ID] = i
		}
		for _, r := range Ranking(pool, relevance, topic, runName) {
			add(index[r.DocId])
		}
	}
	for i := 0; i < pool.Len(); i++ {
		add(i)
	}

	list := make(trecresults.ResultList, len(idx))
	for i, j := range idx {
		list[i] = &trecresults.Result{
			Topic:     topic,
			Iteration: "Q0",
			DocId:     pool.Paper(j).ID,
			Rank:      int64(i + 1),
			Score:     float64(len(idx) - i),
			RunName:   runName,
		}
	}
	return list
}
