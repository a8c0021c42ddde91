package fleet

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

// Filter removes airlines below the minimum fleet size and sanitises the
// modernity score: any non-numeric modernity_index is coerced to 0, then the
// column is clamped to [0, 1].  Malformed scores never fail this stage; the
// only failure mode is an absent fleet_size or modernity_index column.
//
// Excluded airlines are dropped entirely; no sentinel rows survive into the
// scores table.
func Filter(df dataframe.DataFrame, minFleetSize int) (dataframe.DataFrame, error) {
	if df.Error() != nil {
		return dataframe.DataFrame{}, errors.Wrap(df.Error(), errors.ErrCodeInternal, "invalid feature dataframe")
	}

	available := df.Names()
	var missing []string
	for _, col := range []string{ColFleetSize, ColModernityIndex} {
		if !hasColumn(available, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return dataframe.DataFrame{}, errors.MissingColumn("feature table", missing, available)
	}

	kept := df.Filter(dataframe.F{
		Colname:    ColFleetSize,
		Comparator: series.GreaterEq,
		Comparando: minFleetSize,
	})
	if kept.Error() != nil {
		return dataframe.DataFrame{}, errors.Wrap(kept.Error(), errors.ErrCodeInternal, "fleet size filter failed")
	}

	raw := kept.Col(ColModernityIndex).Records()
	clamped := make([]float64, len(raw))
	for i, r := range raw {
		v, ok := ParseFloat(r)
		if !ok {
			v = 0
		}
		clamped[i] = Clamp(v, 0, 1)
	}

	scored := kept.Mutate(series.New(clamped, series.Float, ColModernityIndex))
	if scored.Error() != nil {
		return dataframe.DataFrame{}, errors.Wrap(scored.Error(), errors.ErrCodeInternal, "modernity clamp failed")
	}
	return scored, nil
}

// EnsureNewGenShare adds the new_gen_share column when the upstream dataset
// carries no richer newest-generation signal.  It defaults to a copy of
// modernity_index, which keeps the downstream feature layout stable.
//
// TODO: replace the default with a real newest-generation share once the
// ingestion side exposes per-model generation data; today the column
// duplicates modernity_index and adds no clustering signal of its own.
func EnsureNewGenShare(df dataframe.DataFrame) dataframe.DataFrame {
	if hasColumn(df.Names(), ColNewGenShare) {
		return df
	}

	raw := df.Col(ColModernityIndex).Records()
	share := make([]float64, len(raw))
	for i, r := range raw {
		v, ok := ParseFloat(r)
		if !ok {
			v = 0
		}
		share[i] = v
	}
	return df.Mutate(series.New(share, series.Float, ColNewGenShare))
}
