// Package kmeans implements feature standardization and seeded k-means
// clustering with k-means++ initialization and multiple restarts.
package kmeans

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

var (
	// ErrNoData is returned when Fit receives no points.
	ErrNoData = errors.New("kmeans: no data")
	// ErrTooFewPoints is returned when there are fewer points than clusters.
	ErrTooFewPoints = errors.New("kmeans: fewer points than clusters")
)

// Options controls a Fit run.
type Options struct {
	Seed    uint64
	Inits   int
	MaxIter int
	// Tol is the convergence threshold on centroid movement, relative to the
	// mean feature variance of the data.
	Tol float64
}

// DefaultOptions returns seed 42, 10 inits, 300 iterations, tol 1e-4.
func DefaultOptions() Options {
	return Options{Seed: 42, Inits: 10, MaxIter: 300, Tol: 1e-4}
}

// Model is a fitted clustering.
type Model struct {
	Centroids  [][]float64
	Labels     []int
	Inertia    float64
	Iterations int
}

// Fit clusters the rows of x into k groups. Every restart draws from one
// seeded generator, so identical input and options give identical labels.
func Fit(x [][]float64, k int, opts Options) (*Model, error) {
	if len(x) == 0 {
		return nil, ErrNoData
	}
	if k < 1 {
		return nil, fmt.Errorf("kmeans: k must be positive, got %d", k)
	}
	if len(x) < k {
		return nil, fmt.Errorf("kmeans: %d points for k=%d: %w", len(x), k, ErrTooFewPoints)
	}
	dim := len(x[0])
	for i, row := range x {
		if len(row) != dim {
			return nil, fmt.Errorf("kmeans: row %d has %d features, want %d", i, len(row), dim)
		}
	}
	if opts.Inits < 1 {
		opts.Inits = 1
	}
	if opts.MaxIter < 1 {
		opts.MaxIter = DefaultOptions().MaxIter
	}
	tol := opts.Tol * meanVariance(x)

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	var best *Model
	for i := 0; i < opts.Inits; i++ {
		m := lloyd(x, initPlusPlus(x, k, rng), opts.MaxIter, tol)
		if best == nil || m.Inertia < best.Inertia {
			best = m
		}
	}
	return best, nil
}

// initPlusPlus picks k initial centroids, each new one sampled with
// probability proportional to its squared distance from the nearest chosen.
func initPlusPlus(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(x[rng.IntN(len(x))]))

	d2 := make([]float64, len(x))
	for len(centroids) < k {
		total := 0.0
		for i, p := range x {
			d2[i] = math.Inf(1)
			for _, c := range centroids {
				if d := sqDist(p, c); d < d2[i] {
					d2[i] = d
				}
			}
			total += d2[i]
		}
		if total == 0 {
			centroids = append(centroids, clone(x[rng.IntN(len(x))]))
			continue
		}
		target := rng.Float64() * total
		idx := len(x) - 1
		for i, d := range d2 {
			target -= d
			if target < 0 {
				idx = i
				break
			}
		}
		centroids = append(centroids, clone(x[idx]))
	}
	return centroids
}

func lloyd(x [][]float64, centroids [][]float64, maxIter int, tol float64) *Model {
	k, dim := len(centroids), len(x[0])
	labels := make([]int, len(x))
	iter := 0
	for iter < maxIter {
		iter++
		assign(x, centroids, labels)

		sums := make([][]float64, k)
		counts := make([]int, k)
		for j := range sums {
			sums[j] = make([]float64, dim)
		}
		for i, p := range x {
			counts[labels[i]]++
			for d, v := range p {
				sums[labels[i]][d] += v
			}
		}

		shift := 0.0
		for j := range centroids {
			if counts[j] == 0 {
				continue
			}
			for d := range sums[j] {
				sums[j][d] /= float64(counts[j])
			}
			shift += sqDist(centroids[j], sums[j])
			centroids[j] = sums[j]
		}
		if shift <= tol {
			break
		}
	}
	inertia := assign(x, centroids, labels)
	return &Model{Centroids: centroids, Labels: labels, Inertia: inertia, Iterations: iter}
}

// assign labels every point with its nearest centroid and returns the
// total squared distance.
func assign(x, centroids [][]float64, labels []int) float64 {
	inertia := 0.0
	for i, p := range x {
		best, bestD := 0, math.Inf(1)
		for j, c := range centroids {
			if d := sqDist(p, c); d < bestD {
				best, bestD = j, d
			}
		}
		labels[i] = best
		inertia += bestD
	}
	return inertia
}

// Standardize scales every column to zero mean and unit population
// variance. Constant columns get scale 1.
func Standardize(x [][]float64) (z [][]float64, mean, scale []float64) {
	if len(x) == 0 {
		return nil, nil, nil
	}
	dim := len(x[0])
	mean = make([]float64, dim)
	scale = make([]float64, dim)
	n := float64(len(x))
	for _, row := range x {
		for d, v := range row {
			mean[d] += v
		}
	}
	for d := range mean {
		mean[d] /= n
	}
	for _, row := range x {
		for d, v := range row {
			diff := v - mean[d]
			scale[d] += diff * diff
		}
	}
	for d := range scale {
		scale[d] = math.Sqrt(scale[d] / n)
		if scale[d] == 0 || math.IsNaN(scale[d]) {
			scale[d] = 1
		}
	}
	z = make([][]float64, len(x))
	for i, row := range x {
		z[i] = make([]float64, dim)
		for d, v := range row {
			z[i][d] = (v - mean[d]) / scale[d]
		}
	}
	return z, mean, scale
}

func meanVariance(x [][]float64) float64 {
	dim, n := len(x[0]), float64(len(x))
	if dim == 0 {
		return 0
	}
	total := 0.0
	for d := 0; d < dim; d++ {
		mean := 0.0
		for _, row := range x {
			mean += row[d]
		}
		mean /= n
		for _, row := range x {
			diff := row[d] - mean
			total += diff * diff
		}
	}
	return total / n / float64(dim)
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
