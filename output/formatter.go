// Package output provides different formats of output for simulations.
package output

import (
	"encoding/json"
)

// Summary is the analysis of every simulated run of a dataset.
type Summary struct {
	Dataset  string             `json:"dataset"`
	Strategy string             `json:"strategy"`
	Runs     int                `json:"runs"`
	WSS      map[string]float64 `json:"wss"`
	RRF      map[string]float64 `json:"rrf"`
	// TimeToDiscovery is the average position an included paper was found at, by paper id.
	TimeToDiscovery map[string]float64 `json:"time_to_discovery,omitempty"`
	Curve           *Curve             `json:"curve,omitempty"`
}

// Curve is the average number of inclusions found after each paper read.
type Curve struct {
	X   []float64 `json:"x"`
	Y   []float64 `json:"y"`
	Err []float64 `json:"err"`
}

// Formatter writes summaries in some format.
type Formatter func(summaries []Summary) (string, error)

// JsonFormatter outputs summaries in a JSON format.
func JsonFormatter(summaries []Summary) (string, error) {
	v, err := json.MarshalIndent(summaries, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}
