package scaler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

var testFeatures = []string{"fleet_size", "diversity_score", "modernity_index", "new_gen_share"}

func TestFitTransform(t *testing.T) {
	X := [][]float64{
		{10, 2, 0.2, 0.2},
		{20, 4, 0.6, 0.6},
		{30, 6, 1.0, 1.0},
	}
	s, err := Fit(X, testFeatures)
	require.NoError(t, err)

	scaled, err := s.Transform(X)
	require.NoError(t, err)

	// Every column has zero mean and unit variance after the transform.
	for j := 0; j < 4; j++ {
		var sum, sumSq float64
		for i := range scaled {
			sum += scaled[i][j]
			sumSq += scaled[i][j] * scaled[i][j]
		}
		assert.InDelta(t, 0.0, sum/3.0, 1e-9)
		assert.InDelta(t, 1.0, sumSq/3.0, 1e-9)
	}
}

func TestFitZeroVarianceColumn(t *testing.T) {
	X := [][]float64{
		{10, 5, 0.2, 0.2},
		{20, 5, 0.6, 0.6},
	}
	s, err := Fit(X, testFeatures)
	require.NoError(t, err)

	scaled, err := s.Transform(X)
	require.NoError(t, err)

	// Constant column maps to exactly 0, never a division by zero.
	assert.Equal(t, 0.0, scaled[0][1])
	assert.Equal(t, 0.0, scaled[1][1])
	assert.Equal(t, 1.0, s.Params().Scale[1])
}

func TestFitEmptyMatrix(t *testing.T) {
	_, err := Fit(nil, testFeatures)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyDataset))
}

func TestFitRaggedMatrix(t *testing.T) {
	_, err := Fit([][]float64{{1, 2, 3, 4}, {1, 2}}, testFeatures)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDimensionMismatch))
}

func TestParamsRoundTrip(t *testing.T) {
	X := [][]float64{
		{10, 2, 0.2, 0.2},
		{50, 9, 0.9, 0.9},
		{25, 4, 0.5, 0.5},
	}
	fitted, err := Fit(X, testFeatures)
	require.NoError(t, err)

	reloaded, err := FromParams(fitted.Params())
	require.NoError(t, err)

	// A vector transformed through the reloaded scaler matches the original
	// transform exactly: inference reuses training parameters, no refit.
	v := []float64{25, 4, 0.5, 0.5}
	want, err := fitted.TransformVector(v)
	require.NoError(t, err)
	got, err := reloaded.TransformVector(v)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFromParamsValidation(t *testing.T) {
	_, err := FromParams(Params{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactInvalid))

	_, err = FromParams(Params{Features: testFeatures, Mean: []float64{1}, Scale: []float64{1}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactInvalid))

	_, err = FromParams(Params{
		Features: []string{"a"},
		Mean:     []float64{0},
		Scale:    []float64{0},
	})
	assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactInvalid))
}

func TestTransformVectorDimensionMismatch(t *testing.T) {
	s, err := Fit([][]float64{{1, 2, 3, 4}, {4, 3, 2, 1}}, testFeatures)
	require.NoError(t, err)

	_, err = s.TransformVector([]float64{1, 2})
	assert.True(t, errors.IsCode(err, errors.ErrCodeDimensionMismatch))
}
