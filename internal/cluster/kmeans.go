package cluster

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Errors returned by KMeans.
var (
	ErrInvalidK     = errors.New("k must be positive")
	ErrTooFewPoints = errors.New("fewer points than clusters")
	ErrNoRandom     = errors.New("random source is required")
)

// Default iteration limits.
const (
	DefaultRestarts = 10
	DefaultMaxIter  = 300
	DefaultTol      = 1e-4
)

// Rand is the randomness KMeans needs. *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Options controls a KMeans run. Zero values select the defaults.
type Options struct {
	Rand     Rand
	Restarts int
	MaxIter  int
	Tol      float64
}

func (o Options) withDefaults() Options {
	if o.Restarts <= 0 {
		o.Restarts = DefaultRestarts
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}
	return o
}

// Result is the best clustering found.
type Result struct {
	Centers []Point
	Labels  []int
	Inertia float64
}

// Sizes returns the number of points per cluster.
func (r *Result) Sizes() []int {
	sizes := make([]int, len(r.Centers))
	for _, l := range r.Labels {
		sizes[l]++
	}
	return sizes
}

// Largest returns the label with the most points. Ties go to the lower label.
func (r *Result) Largest() int {
	best, bestSize := 0, -1
	for label, size := range r.Sizes() {
		if size > bestSize {
			best, bestSize = label, size
		}
	}
	return best
}

// KMeans partitions points into k clusters using k-means++ seeding and Lloyd
// iterations, keeping the lowest-inertia result across restarts.
func KMeans(points []Point, k int, opts Options) (*Result, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if len(points) < k {
		return nil, ErrTooFewPoints
	}
	if opts.Rand == nil {
		return nil, ErrNoRandom
	}
	opts = opts.withDefaults()

	var best *Result
	for run := 0; run < opts.Restarts; run++ {
		r := lloyd(points, seedCenters(points, k, opts.Rand), opts)
		if best == nil || r.Inertia < best.Inertia {
			best = r
		}
	}
	return best, nil
}

// seedCenters picks k initial centers with k-means++.
func seedCenters(points []Point, k int, rnd Rand) []Point {
	centers := make([]Point, 0, k)
	centers = append(centers, points[rnd.IntN(len(points))])

	dist := make([]float64, len(points))
	for len(centers) < k {
		sum := 0.0
		for i, p := range points {
			_, d := nearest(p, centers)
			dist[i] = d
			sum += d
		}
		if sum == 0 {
			centers = append(centers, points[rnd.IntN(len(points))])
			continue
		}
		target := rnd.Float64() * sum
		idx := len(points) - 1
		for i, d := range dist {
			target -= d
			if target < 0 {
				idx = i
				break
			}
		}
		centers = append(centers, points[idx])
	}
	return centers
}

func lloyd(points []Point, centers []Point, opts Options) *Result {
	k := len(centers)
	labels := make([]int, len(points))
	sums := make([]Point, k)
	counts := make([]int, k)

	for iter := 0; iter < opts.MaxIter; iter++ {
		for i, p := range points {
			labels[i], _ = nearest(p, centers)
		}

		for j := range sums {
			sums[j] = Point{}
			counts[j] = 0
		}
		for i, p := range points {
			l := labels[i]
			sums[l][0] += p[0]
			sums[l][1] += p[1]
			counts[l]++
		}

		shift := 0.0
		for j := range centers {
			if counts[j] == 0 {
				continue // empty cluster keeps its previous center
			}
			next := Point{sums[j][0] / float64(counts[j]), sums[j][1] / float64(counts[j])}
			shift += sqDist(centers[j], next)
			centers[j] = next
		}
		if shift <= opts.Tol {
			break
		}
	}

	inertia := 0.0
	for i, p := range points {
		labels[i], _ = nearest(p, centers)
		inertia += sqDist(p, centers[labels[i]])
	}
	return &Result{Centers: centers, Labels: labels, Inertia: inertia}
}

// nearest returns the index of the closest center and the squared distance to it.
// Ties go to the lowest index.
func nearest(p Point, centers []Point) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for j, c := range centers {
		if d := sqDist(p, c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best, bestDist
}

func sqDist(a, b Point) float64 {
	d := floats.Distance(a[:], b[:], 2)
	return d * d
}
