// Package cluster partitions entity profiles into behavioral segments using
// seeded Lloyd's k-means over standardized features.
package cluster

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/auditlab/secop-cli/internal/model"
)

// ErrInsufficientData indicates fewer profiles than requested clusters.
var ErrInsufficientData = eris.New("cluster: fewer profiles than clusters")

// featureDim is the number of clustering features: total value, contract
// count, direct-award ratio.
const featureDim = 3

// Options control a segmentation run. Zero values fall back to defaults.
type Options struct {
	K        int   // number of clusters (default 4)
	Seed     int64 // base RNG seed; restart r uses Seed+r
	Restarts int   // independent initializations (default 10)
	MaxIter  int   // iteration bound per restart (default 300)
}

func (o Options) withDefaults() Options {
	if o.K <= 0 {
		o.K = 4
	}
	if o.Restarts <= 0 {
		o.Restarts = 10
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 300
	}
	return o
}

// Result is the outcome of one segmentation run. Labels carry no intrinsic
// meaning across runs; callers derive human-facing interpretations from the
// centroid summaries after each run.
type Result struct {
	Labels    []int                   `json:"labels"` // row order = profile order
	Centroids []model.ClusterCentroid `json:"centroids"`
	K         int                     `json:"k"`
	Seed      int64                   `json:"seed"`
	WCSS      float64                 `json:"wcss"`
	Iters     int                     `json:"iterations"` // iterations of the winning restart
}

// Segment standardizes the profile feature matrix and runs k-means with
// multiple seeded restarts, keeping the partition with the lowest
// within-cluster sum of squares. Given the same profiles and options the
// result is identical across runs.
//
// Fails with ErrInsufficientData when len(profiles) < k.
func Segment(profiles []model.EntityProfile, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	n := len(profiles)
	if n < opts.K {
		return nil, eris.Wrapf(ErrInsufficientData, "cluster: %d profiles, k=%d", n, opts.K)
	}

	points := standardize(featureMatrix(profiles))

	var best []int
	bestWCSS := math.Inf(1)
	bestIters := 0

	for r := 0; r < opts.Restarts; r++ {
		rng := rand.New(rand.NewSource(opts.Seed + int64(r)))
		labels, wcss, iters := lloyd(points, opts.K, opts.MaxIter, rng)
		if wcss < bestWCSS {
			best = labels
			bestWCSS = wcss
			bestIters = iters
		}
	}

	res := &Result{
		Labels:    best,
		Centroids: rawCentroids(profiles, best, opts.K),
		K:         opts.K,
		Seed:      opts.Seed,
		WCSS:      bestWCSS,
		Iters:     bestIters,
	}

	zap.L().Info("cluster: segmentation complete",
		zap.Int("profiles", n),
		zap.Int("k", opts.K),
		zap.Int64("seed", opts.Seed),
		zap.Float64("wcss", bestWCSS),
		zap.Int("iterations", bestIters),
	)

	return res, nil
}

// lloyd runs one k-means pass: seeded sampling of k distinct points as
// initial centroids, nearest-centroid assignment, mean update, until
// assignments stabilize or maxIter is hit. A cluster that loses all points
// keeps its previous centroid.
func lloyd(points [][featureDim]float64, k, maxIter int, rng *rand.Rand) (labels []int, wcss float64, iters int) {
	n := len(points)

	centroids := make([][featureDim]float64, k)
	for i, idx := range rng.Perm(n)[:k] {
		centroids[i] = points[idx]
	}

	labels = make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for iters = 1; iters <= maxIter; iters++ {
		changed := false
		for i, p := range points {
			c := nearest(p, centroids)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][featureDim]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for d := 0; d < featureDim; d++ {
				sums[c][d] += p[d]
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < featureDim; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	for i, p := range points {
		wcss += sqDist(p, centroids[labels[i]])
	}
	return labels, wcss, iters
}

// nearest returns the index of the centroid closest to p by Euclidean
// distance, lowest index on ties.
func nearest(p [featureDim]float64, centroids [][featureDim]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func sqDist(a, b [featureDim]float64) float64 {
	var sum float64
	for d := 0; d < featureDim; d++ {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return sum
}

// featureMatrix extracts the raw clustering features in profile order.
func featureMatrix(profiles []model.EntityProfile) [][featureDim]float64 {
	points := make([][featureDim]float64, len(profiles))
	for i, p := range profiles {
		points[i] = [featureDim]float64{p.TotalValue, float64(p.ContractCount), p.DirectAwardRatio}
	}
	return points
}

// standardize z-scores each feature column using this run's statistics only.
// Zero-variance columns map to zero instead of dividing by zero.
func standardize(points [][featureDim]float64) [][featureDim]float64 {
	n := float64(len(points))
	if n == 0 {
		return points
	}

	var mean, std [featureDim]float64
	for _, p := range points {
		for d := 0; d < featureDim; d++ {
			mean[d] += p[d]
		}
	}
	for d := 0; d < featureDim; d++ {
		mean[d] /= n
	}
	for _, p := range points {
		for d := 0; d < featureDim; d++ {
			diff := p[d] - mean[d]
			std[d] += diff * diff
		}
	}
	for d := 0; d < featureDim; d++ {
		std[d] = math.Sqrt(std[d] / n)
		if std[d] == 0 {
			std[d] = 1
		}
	}

	scaled := make([][featureDim]float64, len(points))
	for i, p := range points {
		for d := 0; d < featureDim; d++ {
			scaled[i][d] = (p[d] - mean[d]) / std[d]
		}
	}
	return scaled
}

// rawCentroids reports per-cluster means of the original-unit features.
func rawCentroids(profiles []model.EntityProfile, labels []int, k int) []model.ClusterCentroid {
	sums := make([][featureDim]float64, k)
	counts := make([]int, k)
	for i, p := range profiles {
		c := labels[i]
		counts[c]++
		sums[c][0] += p.TotalValue
		sums[c][1] += float64(p.ContractCount)
		sums[c][2] += p.DirectAwardRatio
	}

	centroids := make([]model.ClusterCentroid, k)
	for c := 0; c < k; c++ {
		centroids[c] = model.ClusterCentroid{Cluster: c, Size: counts[c]}
		if counts[c] == 0 {
			continue
		}
		centroids[c].TotalValue = sums[c][0] / float64(counts[c])
		centroids[c].ContractCount = sums[c][1] / float64(counts[c])
		centroids[c].DirectAwardRatio = sums[c][2] / float64(counts[c])
	}
	return centroids
}
