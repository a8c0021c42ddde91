// Package scaler implements column-wise standardisation (zero mean, unit
// variance) with portable fitted parameters.  The persisted mean/scale
// vectors are applied unchanged at inference time so a single hypothetical
// airline is transformed exactly as the training matrix was.
package scaler

import (
	"math"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

// Params are the portable fitted parameters of a StandardScaler: one mean
// and one scale per feature column, index-aligned with Features.
type Params struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
}

// StandardScaler standardises a feature matrix column by column.
type StandardScaler struct {
	params Params
}

// Fit computes per-column mean and standard deviation over X, whose rows are
// samples and whose columns align with features.  A zero-variance column gets
// scale 1 so that its transformed values are exactly 0 after centering; the
// transform never divides by zero.
func Fit(X [][]float64, features []string) (*StandardScaler, error) {
	if len(X) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "cannot fit scaler on an empty matrix")
	}
	dim := len(features)
	for i, row := range X {
		if len(row) != dim {
			return nil, errors.Newf(errors.ErrCodeDimensionMismatch,
				"row %d has %d values, want %d", i, len(row), dim)
		}
	}

	n := float64(len(X))
	mean := make([]float64, dim)
	for _, row := range X {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	scale := make([]float64, dim)
	for _, row := range X {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}

	return &StandardScaler{params: Params{
		Features: append([]string(nil), features...),
		Mean:     mean,
		Scale:    scale,
	}}, nil
}

// FromParams rebuilds a scaler from persisted parameters, validating that the
// mean and scale vectors align with the feature list.
func FromParams(p Params) (*StandardScaler, error) {
	if len(p.Features) == 0 {
		return nil, errors.New(errors.ErrCodeArtifactInvalid, "scaler artifact has no features")
	}
	if len(p.Mean) != len(p.Features) || len(p.Scale) != len(p.Features) {
		return nil, errors.Newf(errors.ErrCodeArtifactInvalid,
			"scaler artifact misaligned: %d features, %d means, %d scales",
			len(p.Features), len(p.Mean), len(p.Scale))
	}
	for j, s := range p.Scale {
		if s == 0 {
			return nil, errors.Newf(errors.ErrCodeArtifactInvalid, "scaler artifact has zero scale at column %d", j)
		}
	}
	return &StandardScaler{params: p}, nil
}

// Params returns a copy of the fitted parameters for persistence.
func (s *StandardScaler) Params() Params {
	return Params{
		Features: append([]string(nil), s.params.Features...),
		Mean:     append([]float64(nil), s.params.Mean...),
		Scale:    append([]float64(nil), s.params.Scale...),
	}
}

// Transform standardises every row of X with the fitted parameters.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled, err := s.TransformVector(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

// TransformVector standardises a single raw feature vector.  This is the
// inference-time path: the same parameters fitted on the training matrix are
// applied, never refitted.
func (s *StandardScaler) TransformVector(v []float64) ([]float64, error) {
	if len(v) != len(s.params.Mean) {
		return nil, errors.Newf(errors.ErrCodeDimensionMismatch,
			"vector has %d values, scaler expects %d", len(v), len(s.params.Mean))
	}
	out := make([]float64, len(v))
	for j, x := range v {
		out[j] = (x - s.params.Mean[j]) / s.params.Scale[j]
	}
	return out, nil
}
