package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hscells/trecresults"
)

// WriteTrec writes a result list in the six column TREC run format.
func WriteTrec(w io.Writer, list trecresults.ResultList) error {
	b := bufio.NewWriter(w)
	for _, r := range list {
		_, err := fmt.Fprintf(b, "%s %s %s %d %f %s\n", r.Topic, r.Iteration, r.DocId, r.Rank, r.Score, r.RunName)
		if err != nil {
			return err
		}
	}
	return b.Flush()
}
