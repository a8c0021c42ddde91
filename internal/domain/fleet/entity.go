// Package fleet holds the airline fleet domain: the canonical column schema
// of the per-aircraft dataset and the deterministic transforms that collapse
// it into per-airline modernity features.
package fleet

import (
	"math"
	"strconv"
	"strings"
)

// Canonical column names of the per-aircraft input table.  Callers are
// responsible for upstream name normalisation; grouping uses airline_name
// exactly as provided.
const (
	ColAirlineName  = "airline_name"
	ColCountry      = "country"
	ColRegion       = "region"
	ColEntryYear    = "entry_year"
	ColAircraftType = "aircraft_type"
)

// Columns of the aggregated per-airline feature table.
const (
	ColFleetSize       = "fleet_size"
	ColAvgEntryYear    = "avg_entry_year"
	ColModernCount2015 = "modern_count_2015"
	ColModernCount2010 = "modern_count_2010"
	ColPctModern2015   = "pct_modern_2015"
	ColPctModern2010   = "pct_modern_2010"
	ColModernityIndex  = "modernity_index"
	ColDiversityScore  = "diversity_score"
	ColNewGenShare     = "new_gen_share"
	ColCluster         = "cluster"
	ColPCA1            = "pca_1"
	ColPCA2            = "pca_2"
)

// Modernity thresholds: an aircraft is "modern" when it entered service in or
// after the threshold year.
const (
	ModernYear2015 = 2015
	ModernYear2010 = 2010
)

// FeatureColumns returns the four feature columns consumed by the scaler,
// clustering and the surrogate classifier, in their fixed order.
func FeatureColumns() []string {
	return []string{ColFleetSize, ColDiversityScore, ColModernityIndex, ColNewGenShare}
}

// FeatureVector is a single airline profile in raw (unscaled) feature space.
// It is the unit of inference for the simulator: one hypothetical airline.
type FeatureVector struct {
	FleetSize      float64 `json:"fleet_size"`
	DiversityScore float64 `json:"diversity_score"`
	ModernityIndex float64 `json:"modernity_index"`
	NewGenShare    float64 `json:"new_gen_share"`
}

// Values returns the vector in FeatureColumns order.
func (v FeatureVector) Values() []float64 {
	return []float64{v.FleetSize, v.DiversityScore, v.ModernityIndex, v.NewGenShare}
}

// ParseFloat coerces an arbitrary cell value to a float64.  It reports false
// for empty strings, the gota NaN marker, unparsable text, and NaN/Inf
// values, which the aggregation treats as missing rather than zero.
func ParseFloat(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "na") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
