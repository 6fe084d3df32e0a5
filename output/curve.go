package output

import (
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

type point struct {
	Read  float64 `csv:"read"`
	Found float64 `csv:"found"`
	Err   float64 `csv:"err"`
}

// CsvCurveFormatter outputs an inclusion curve in CSV format, one row per paper read.
func CsvCurveFormatter(c Curve) (string, error) {
	if len(c.X) != len(c.Y) || len(c.X) != len(c.Err) {
		return "", errors.Errorf("curve has %d, %d and %d points", len(c.X), len(c.Y), len(c.Err))
	}
	points := make([]point, len(c.X))
	for i := range c.X {
		points[i] = point{Read: c.X[i], Found: c.Y[i], Err: c.Err[i]}
	}
	return gocsv.MarshalString(points)
}
