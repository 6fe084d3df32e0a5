package rank_test

import (
	"math/rand"
	"reflect"
	"strconv"
	"testing"

	"github.com/hscells/sieve/learning"
	"github.com/hscells/sieve/rank"
)

// newPool creates a pool of two clusters: papers near (1, 0) are relevant, papers near (0, 1)
// are not. Only the first two papers of each cluster are labelled.
func newPool(t *testing.T) *learning.Pool {
	var papers []learning.Paper
	for i := 0; i < 5; i++ {
		l := learning.Unlabelled
		if i < 2 {
			l = learning.Included
		}
		papers = append(papers, learning.Paper{ID: "r" + strconv.Itoa(i), Features: []float64{1, 0.1 * float64(i)}, Label: l})
	}
	for i := 0; i < 5; i++ {
		l := learning.Unlabelled
		if i < 2 {
			l = learning.Excluded
		}
		papers = append(papers, learning.Paper{ID: "n" + strconv.Itoa(i), Features: []float64{0.1 * float64(i), 1}, Label: l})
	}
	pool, err := learning.NewPool(papers)
	if err != nil {
		t.Fatal(err)
	}
	return pool
}

func predict(t *testing.T, pool *learning.Pool) []float64 {
	ts, err := learning.FullSampler{}.Resample(pool, learning.Round{})
	if err != nil {
		t.Fatal(err)
	}
	clf := rank.NewCentroidClassifier()
	if err := clf.Fit(ts); err != nil {
		t.Fatal(err)
	}
	relevance, err := clf.Predict(pool)
	if err != nil {
		t.Fatal(err)
	}
	return relevance
}

func TestCentroidClassifier(t *testing.T) {
	pool := newPool(t)
	relevance := predict(t, pool)
	for i := 0; i < 5; i++ {
		for j := 5; j < 10; j++ {
			if relevance[i] <= relevance[j] {
				t.Fatalf("expected relevant paper %d (%v) to score higher than %d (%v)", i, relevance[i], j, relevance[j])
			}
		}
	}
}

func TestCentroidClassifierUnfit(t *testing.T) {
	if _, err := rank.NewCentroidClassifier().Predict(newPool(t)); err == nil {
		t.Fatal("expected an error before fitting")
	}
	if err := rank.NewCentroidClassifier().Fit(learning.TrainingSet{}); err == nil {
		t.Fatal("expected an error without included papers")
	}
}

func TestMaxQuery(t *testing.T) {
	pool := newPool(t)
	relevance := predict(t, pool)
	idx, err := rank.MaxQuery{}.Query(pool, relevance, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range idx {
		if i < 2 || i > 4 {
			t.Fatalf("expected an unlabelled relevant paper, got %d", i)
		}
	}

	all, err := rank.MaxQuery{}.Query(pool, relevance, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 6 {
		t.Fatalf("expected every unlabelled paper, got %v", all)
	}
}

func TestRandomQuery(t *testing.T) {
	pool := newPool(t)
	a, err := rank.RandomQuery{}.Query(pool, nil, 4, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := rank.RandomQuery{}.Query(pool, nil, 4, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 4 || !reflect.DeepEqual(a, b) {
		t.Fatalf("expected the same four papers, got %v and %v", a, b)
	}
	for _, i := range a {
		if pool.Paper(i).Label != learning.Unlabelled {
			t.Fatalf("paper %d is already labelled", i)
		}
	}
}

func TestMixedQuery(t *testing.T) {
	pool := newPool(t)
	relevance := predict(t, pool)
	idx, err := rank.MixedQuery{MaxFraction: 0.5}.Query(pool, relevance, 4, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if len(idx) != 4 {
		t.Fatalf("expected 4 papers, got %v", idx)
	}
	top, err := rank.MaxQuery{}.Query(pool, relevance, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(idx[:2], top) {
		t.Fatalf("expected %v first, got %v", top, idx[:2])
	}
	seen := make(map[int]bool)
	for _, i := range idx {
		if seen[i] {
			t.Fatalf("paper %d queried twice", i)
		}
		seen[i] = true
	}
}

func TestNewQueryStrategy(t *testing.T) {
	for _, name := range []string{"max", "random", "max_random"} {
		q, err := rank.NewQueryStrategy(name)
		if err != nil {
			t.Fatal(err)
		}
		if q.Name() != name {
			t.Errorf("expected %s, got %s", name, q.Name())
		}
	}
	if _, err := rank.NewQueryStrategy("cluster"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestReadingOrder(t *testing.T) {
	pool := newPool(t)
	relevance := predict(t, pool)
	list := rank.ReadingOrder(pool, []int{5, 0, 1, 6}, relevance, "1", "test")
	if len(list) != 10 {
		t.Fatalf("expected 10 results, got %d", len(list))
	}
	expected := []string{"n0", "r0", "r1", "n1"}
	for i, id := range expected {
		if list[i].DocId != id {
			t.Fatalf("expected %s at rank %d, got %s", id, i+1, list[i].DocId)
		}
	}
	for i, r := range list {
		if r.Rank != int64(i+1) {
			t.Fatalf("expected rank %d, got %d", i+1, r.Rank)
		}
	}
	// Relevant papers come before the rest of the non-relevant ones.
	for i := 4; i < 7; i++ {
		if list[i].DocId[0] != 'r' {
			t.Fatalf("expected a relevant paper at rank %d, got %s", i+1, list[i].DocId)
		}
	}
}

func TestRanking(t *testing.T) {
	pool := newPool(t)
	relevance := make([]float64, pool.Len())
	for i := range relevance {
		relevance[i] = float64(i)
	}
	list := rank.Ranking(pool, relevance, "1", "test")
	if len(list) != 6 {
		t.Fatalf("expected 6 results, got %d", len(list))
	}
	if list[0].DocId != "n4" || list[len(list)-1].DocId != "r2" {
		t.Fatalf("unexpected ranking %s ... %s", list[0].DocId, list[len(list)-1].DocId)
	}
	for i := 1; i < len(list); i++ {
		if list[i].Score > list[i-1].Score {
			t.Fatal("ranking is not sorted by score")
		}
	}
}

func TestRankingTies(t *testing.T) {
	pool := newPool(t)
	list := rank.Ranking(pool, make([]float64, pool.Len()), "1", "test")
	expected := []string{"r2", "r3", "r4", "n2", "n3", "n4"}
	if len(list) != len(expected) {
		t.Fatalf("expected %d results, got %d", len(expected), len(list))
	}
	for i, id := range expected {
		if list[i].DocId != id || list[i].Rank != int64(i+1) {
			t.Fatalf("expected %s at rank %d, got %s at %d", id, i+1, list[i].DocId, list[i].Rank)
		}
	}
}

func TestReadingOrderFollowsRanking(t *testing.T) {
	pool := newPool(t)
	relevance := predict(t, pool)
	order := rank.ReadingOrder(pool, pool.Labelled(), relevance, "1", "test")
	ranking := rank.Ranking(pool, relevance, "1", "test")

	tail := order[len(pool.Labelled()):]
	if len(tail) != len(ranking) {
		t.Fatalf("expected %d unlabelled papers, got %d", len(ranking), len(tail))
	}
	for i := range ranking {
		if tail[i].DocId != ranking[i].DocId {
			t.Fatalf("expected %s at rank %d, got %s", ranking[i].DocId, len(pool.Labelled())+i+1, tail[i].DocId)
		}
	}

	// Without relevance the rest follows dataset order.
	order = rank.ReadingOrder(pool, []int{9}, nil, "1", "test")
	if order[0].DocId != "n4" || order[1].DocId != "r0" || order[9].DocId != "n3" {
		t.Fatalf("unexpected reading order %s, %s ... %s", order[0].DocId, order[1].DocId, order[9].DocId)
	}
}
