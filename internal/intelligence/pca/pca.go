// Package pca projects the standardized feature matrix onto its two leading
// principal components for visualisation.  The coordinates are display-only:
// clustering and classification never read them.
//
// The decomposition runs through gonum's SVD, which is fully deterministic,
// and a fixed sign convention is applied to the components so that repeated
// runs on identical input produce identical coordinates.
package pca

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

// Components is the number of retained principal components.
const Components = 2

// FitTransform fits a 2-component PCA on X (rows are samples) and returns the
// projected coordinates, one [pca_1, pca_2] pair per input row.
func FitTransform(X [][]float64) ([][]float64, error) {
	n := len(X)
	if n < Components {
		return nil, errors.Newf(errors.ErrCodeEmptyDataset,
			"need at least %d rows for a %d-component projection, got %d", Components, Components, n)
	}
	dim := len(X[0])
	if dim < Components {
		return nil, errors.Newf(errors.ErrCodeDimensionMismatch,
			"need at least %d feature columns, got %d", Components, dim)
	}

	// Center columns; the input is usually standardized already, but the
	// projection must not depend on that.
	mean := make([]float64, dim)
	for _, row := range X {
		if len(row) != dim {
			return nil, errors.New(errors.ErrCodeDimensionMismatch, "ragged input matrix")
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	centered := mat.NewDense(n, dim, nil)
	for i, row := range X {
		for j, v := range row {
			centered.Set(i, j, v-mean[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, errors.New(errors.ErrCodeInternal, "SVD factorization failed")
	}

	var u mat.Dense
	svd.UTo(&u)
	sigma := svd.Values(nil)

	// Deterministic sign convention: within each retained component, the
	// entry of largest magnitude is made positive.
	coords := make([][]float64, n)
	for i := range coords {
		coords[i] = make([]float64, Components)
	}
	for c := 0; c < Components; c++ {
		flip := 1.0
		maxAbs := -1.0
		for i := 0; i < n; i++ {
			if a := math.Abs(u.At(i, c)); a > maxAbs {
				maxAbs = a
				if u.At(i, c) < 0 {
					flip = -1.0
				} else {
					flip = 1.0
				}
			}
		}
		for i := 0; i < n; i++ {
			coords[i][c] = u.At(i, c) * sigma[c] * flip
		}
	}
	return coords, nil
}
