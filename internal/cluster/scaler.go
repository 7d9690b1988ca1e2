// Package cluster provides the standardization and k-means primitives used to
// learn habit centers from completion timestamps.
package cluster

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Point is a 2-D observation: (weekday, hour).
type Point [2]float64

// Scaler standardizes points to zero mean and unit population variance.
// A dimension with zero variance keeps scale 1.
type Scaler struct {
	Mean  Point
	Scale Point
}

// Fit computes the per-dimension mean and population standard deviation.
func Fit(points []Point) Scaler {
	s := Scaler{Scale: Point{1, 1}}
	if len(points) == 0 {
		return s
	}
	col := make([]float64, len(points))
	for d := 0; d < len(s.Mean); d++ {
		for i, p := range points {
			col[i] = p[d]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		s.Mean[d] = mean
		if std := math.Sqrt(variance); std > 0 && !math.IsNaN(std) {
			s.Scale[d] = std
		}
	}
	return s
}

// Transform returns standardized copies of points.
func (s Scaler) Transform(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		for d := range p {
			out[i][d] = (p[d] - s.Mean[d]) / s.Scale[d]
		}
	}
	return out
}

// Inverse maps a standardized point back into the original space.
func (s Scaler) Inverse(p Point) Point {
	var out Point
	for d := range p {
		out[d] = p[d]*s.Scale[d] + s.Mean[d]
	}
	return out
}
