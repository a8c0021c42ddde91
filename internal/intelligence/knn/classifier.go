// Package knn implements the surrogate nearest-neighbor classifier that
// reproduces the clustering's decision boundary.  Keeping the reference
// vectors and labels explicit makes the persisted model portable: any
// consumer can reload mean/scale plus these points and classify a single
// profile without recomputing a clustering.
package knn

import (
	"sort"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

// Classifier is a k-nearest-neighbor majority-vote classifier over Euclidean
// distance in standardized feature space.
type Classifier struct {
	neighbors int
	points    [][]float64
	labels    []int
}

// Fit stores the labeled reference points.  There is no training beyond
// retention; the decision boundary is implied by the data.
func Fit(points [][]float64, labels []int, neighbors int) (*Classifier, error) {
	if neighbors < 1 {
		return nil, errors.Newf(errors.ErrCodeValidation, "neighbor count must be >= 1, got %d", neighbors)
	}
	if len(points) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "cannot fit classifier on zero reference points")
	}
	if len(points) != len(labels) {
		return nil, errors.Newf(errors.ErrCodeDimensionMismatch,
			"%d points but %d labels", len(points), len(labels))
	}
	return &Classifier{neighbors: neighbors, points: points, labels: labels}, nil
}

// Neighbors returns the configured k.
func (c *Classifier) Neighbors() int { return c.neighbors }

// ReferenceData returns the stored points and labels for persistence.
func (c *Classifier) ReferenceData() ([][]float64, []int) {
	return c.points, c.labels
}

// Predict classifies a single standardized vector by majority vote among the
// k nearest reference points.  Distance ties prefer the earlier reference
// point; vote ties prefer the smallest label, so prediction is deterministic.
func (c *Classifier) Predict(x []float64) (int, error) {
	if len(x) != len(c.points[0]) {
		return 0, errors.Newf(errors.ErrCodeDimensionMismatch,
			"vector has %d values, classifier expects %d", len(x), len(c.points[0]))
	}

	type neighbor struct {
		index int
		dist  float64
	}
	neighbors := make([]neighbor, len(c.points))
	for i, p := range c.points {
		neighbors[i] = neighbor{index: i, dist: sqDist(x, p)}
	}
	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].dist != neighbors[b].dist {
			return neighbors[a].dist < neighbors[b].dist
		}
		return neighbors[a].index < neighbors[b].index
	})

	k := c.neighbors
	if k > len(neighbors) {
		k = len(neighbors)
	}

	votes := make(map[int]int)
	for _, nb := range neighbors[:k] {
		votes[c.labels[nb.index]]++
	}

	best, bestVotes := -1, -1
	for label, count := range votes {
		if count > bestVotes || (count == bestVotes && label < best) {
			best, bestVotes = label, count
		}
	}
	return best, nil
}

// PredictBatch classifies every row of X.
func (c *Classifier) PredictBatch(X [][]float64) ([]int, error) {
	out := make([]int, len(X))
	for i, x := range X {
		label, err := c.Predict(x)
		if err != nil {
			return nil, err
		}
		out[i] = label
	}
	return out, nil
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
