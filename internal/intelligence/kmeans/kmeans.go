// Package kmeans implements seeded Lloyd clustering with k-means++
// initialisation and multi-restart selection.  The routines are written out
// explicitly, with fixed tie-breaks, so that an identical matrix and seed
// produce identical assignments rather than whatever a numeric library's
// internals happen to yield.
package kmeans

import (
	"math"
	"math/rand"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

// Config carries the tunables of a clustering fit.
type Config struct {
	// Clusters is the number of centroids (k).
	Clusters int

	// Restarts is the number of independent initialisations; the run with the
	// strictly lowest inertia wins, so on ties the earlier restart is kept.
	Restarts int

	// MaxIterations caps Lloyd iterations within one run.
	MaxIterations int

	// Seed drives centroid initialisation.  Every restart draws from a single
	// generator seeded here, which makes the restart sequence, and therefore
	// the winner, a pure function of seed and data.
	Seed int64
}

const defaultMaxIterations = 300

// Model is a fitted partition.
type Model struct {
	// Centroids are the final cluster centers, indexed by cluster id 0..k-1.
	Centroids [][]float64

	// Labels assigns each input row a cluster id, index-aligned with the
	// training matrix.  Cluster ids carry no semantic ordering across runs.
	Labels []int

	// Inertia is the sum of squared distances from each point to its
	// assigned centroid.
	Inertia float64
}

// Point is one elbow diagnostic sample.
type Point struct {
	K       int     `json:"k"`
	Inertia float64 `json:"inertia"`
}

// Fit partitions X into cfg.Clusters clusters and returns the lowest-inertia
// result over cfg.Restarts seeded initialisations.
func Fit(X [][]float64, cfg Config) (*Model, error) {
	if err := validate(X, cfg.Clusters); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	return fitBest(X, cfg, rng), nil
}

// Elbow fits every k from 1 to maxK (capped at the row count) from scratch
// with the same seeding policy and reports the winning inertia per k.  Each k
// additionally considers a warm start derived from the previous k's winner
// (its centroids plus the point farthest from them) whose initial cost cannot
// exceed the previous inertia, so the reported curve is non-increasing in k
// on any dataset.
func Elbow(X [][]float64, maxK int, cfg Config) ([]Point, error) {
	if len(X) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "cannot build elbow curve on an empty matrix")
	}
	if maxK < 1 {
		return nil, errors.Newf(errors.ErrCodeValidation, "elbow sweep needs maxK >= 1, got %d", maxK)
	}
	if maxK > len(X) {
		maxK = len(X)
	}

	points := make([]Point, 0, maxK)
	var prev *Model
	for k := 1; k <= maxK; k++ {
		kcfg := cfg
		kcfg.Clusters = k
		rng := rand.New(rand.NewSource(cfg.Seed))
		best := fitBest(X, kcfg, rng)

		if prev != nil {
			warm := warmStart(X, prev)
			cand := lloyd(X, warm, maxIterations(cfg))
			if cand.Inertia < best.Inertia {
				best = cand
			}
		}

		points = append(points, Point{K: k, Inertia: best.Inertia})
		prev = best
	}
	return points, nil
}

// Predict returns the id of the centroid nearest to x.
func (m *Model) Predict(x []float64) int {
	best, _ := nearestCentroid(x, m.Centroids)
	return best
}

func validate(X [][]float64, k int) error {
	if k < 1 {
		return errors.Newf(errors.ErrCodeValidation, "cluster count must be >= 1, got %d", k)
	}
	if len(X) == 0 {
		return errors.New(errors.ErrCodeEmptyDataset, "cannot cluster an empty matrix")
	}
	if len(X) < k {
		return errors.Newf(errors.ErrCodeEmptyDataset,
			"cannot fit %d clusters on %d rows", k, len(X))
	}
	return nil
}

func maxIterations(cfg Config) int {
	if cfg.MaxIterations < 1 {
		return defaultMaxIterations
	}
	return cfg.MaxIterations
}

func fitBest(X [][]float64, cfg Config, rng *rand.Rand) *Model {
	restarts := cfg.Restarts
	if restarts < 1 {
		restarts = 1
	}
	iters := maxIterations(cfg)

	var best *Model
	for r := 0; r < restarts; r++ {
		centroids := seedCentroids(X, cfg.Clusters, rng)
		m := lloyd(X, centroids, iters)
		if best == nil || m.Inertia < best.Inertia {
			best = m
		}
	}
	return best
}

// seedCentroids picks k initial centroids with the k-means++ scheme: the
// first uniformly at random, each further one with probability proportional
// to its squared distance from the nearest centroid chosen so far.
func seedCentroids(X [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(X)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneVec(X[rng.Intn(n)]))

	d2 := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, x := range X {
			_, dist := nearestCentroid(x, centroids)
			d2[i] = dist
			total += dist
		}

		var next int
		if total == 0 {
			// All points coincide with existing centroids.
			next = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			cum := 0.0
			next = n - 1
			for i, d := range d2 {
				cum += d
				if cum >= target {
					next = i
					break
				}
			}
		}
		centroids = append(centroids, cloneVec(X[next]))
	}
	return centroids
}

// lloyd iterates assign/update from the given centroids until assignments
// stop changing or the iteration cap is reached.
func lloyd(X [][]float64, centroids [][]float64, maxIter int) *Model {
	n := len(X)
	k := len(centroids)
	dim := len(X[0])
	labels := make([]int, n)

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, x := range X {
			best, _ := nearestCentroid(x, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		// Recompute centroids as the mean of their members.
		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, x := range X {
			c := labels[i]
			counts[c]++
			for j, v := range x {
				sums[c][j] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an emptied cluster with the point farthest from its
				// current centroid; lowest index wins distance ties.
				centroids[c] = cloneVec(X[farthestPoint(X, labels, centroids)])
				continue
			}
			for j := range sums[c] {
				sums[c][j] /= float64(counts[c])
			}
			centroids[c] = sums[c]
		}
	}

	// Final assignment and inertia against the settled centroids.
	inertia := 0.0
	for i, x := range X {
		best, dist := nearestCentroid(x, centroids)
		labels[i] = best
		inertia += dist
	}

	return &Model{Centroids: centroids, Labels: labels, Inertia: inertia}
}

// warmStart builds k+1 centroids from a fitted k-model: its centroids plus
// the point farthest from its assigned centroid.
func warmStart(X [][]float64, prev *Model) [][]float64 {
	centroids := make([][]float64, 0, len(prev.Centroids)+1)
	for _, c := range prev.Centroids {
		centroids = append(centroids, cloneVec(c))
	}
	centroids = append(centroids, cloneVec(X[farthestPoint(X, prev.Labels, prev.Centroids)]))
	return centroids
}

func farthestPoint(X [][]float64, labels []int, centroids [][]float64) int {
	worst, worstDist := 0, -1.0
	for i, x := range X {
		d := sqDist(x, centroids[labels[i]])
		if d > worstDist {
			worst, worstDist = i, d
		}
	}
	return worst
}

// nearestCentroid returns the index of the closest centroid and the squared
// distance to it.  Strict comparison keeps the lowest index on exact ties.
func nearestCentroid(x []float64, centroids [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(x, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func cloneVec(v []float64) []float64 {
	return append([]float64(nil), v...)
}
