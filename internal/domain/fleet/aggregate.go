package fleet

import (
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

// airlineAccum collects the per-airline running totals during aggregation.
type airlineAccum struct {
	country    string
	region     string
	fleetSize  int
	sumYear    float64
	modern2015 int
	modern2010 int
	types      map[string]struct{}
}

// BuildFeatures collapses the per-aircraft table into one feature row per
// airline.  Rows missing a region or a numeric-coercible entry_year are
// dropped before grouping, so regional and temporal statistics are never
// polluted by unknowns.  Unparsable entry_year values count as missing, not
// as zero.
//
// The output carries one row per distinct airline_name, sorted by name, with
// the columns of the features contract (fleet_size, avg_entry_year, modern
// counts and percentages, modernity_index, diversity_score).
func BuildFeatures(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if df.Error() != nil {
		return dataframe.DataFrame{}, errors.Wrap(df.Error(), errors.ErrCodeInternal, "invalid fleet dataframe")
	}

	available := df.Names()
	required := []string{ColAirlineName, ColCountry, ColRegion, ColEntryYear}
	var missing []string
	for _, col := range required {
		if !hasColumn(available, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return dataframe.DataFrame{}, errors.MissingColumn("fleet dataset", missing, available)
	}

	names := df.Col(ColAirlineName).Records()
	countries := df.Col(ColCountry).Records()
	regions := df.Col(ColRegion).Records()
	years := df.Col(ColEntryYear).Records()

	var types []string
	hasTypes := hasColumn(available, ColAircraftType)
	if hasTypes {
		types = df.Col(ColAircraftType).Records()
	}

	accums := make(map[string]*airlineAccum)
	for i := range names {
		airline := strings.TrimSpace(names[i])
		if airline == "" {
			continue
		}

		year, ok := ParseFloat(years[i])
		if !ok {
			continue
		}
		region := strings.TrimSpace(regions[i])
		country := strings.TrimSpace(countries[i])
		if region == "" || strings.EqualFold(region, "nan") ||
			country == "" || strings.EqualFold(country, "nan") {
			continue
		}

		acc, seen := accums[airline]
		if !seen {
			acc = &airlineAccum{
				country: country,
				region:  region,
				types:   make(map[string]struct{}),
			}
			accums[airline] = acc
		}

		acc.fleetSize++
		acc.sumYear += year
		if year >= ModernYear2015 {
			acc.modern2015++
		}
		if year >= ModernYear2010 {
			acc.modern2010++
		}
		if hasTypes {
			if typ := strings.TrimSpace(types[i]); typ != "" && !strings.EqualFold(typ, "nan") {
				acc.types[typ] = struct{}{}
			}
		}
	}

	airlines := make([]string, 0, len(accums))
	for name := range accums {
		airlines = append(airlines, name)
	}
	sort.Strings(airlines)

	n := len(airlines)
	var (
		outCountry   = make([]string, n)
		outRegion    = make([]string, n)
		outFleet     = make([]int, n)
		outAvgYear   = make([]float64, n)
		outCount2015 = make([]int, n)
		outCount2010 = make([]int, n)
		outPct2015   = make([]float64, n)
		outPct2010   = make([]float64, n)
		outModernity = make([]float64, n)
		outDiversity = make([]int, n)
	)

	for i, airline := range airlines {
		acc := accums[airline]
		size := float64(acc.fleetSize)

		outCountry[i] = acc.country
		outRegion[i] = acc.region
		outFleet[i] = acc.fleetSize
		outAvgYear[i] = acc.sumYear / size
		outCount2015[i] = acc.modern2015
		outCount2010[i] = acc.modern2010
		outPct2015[i] = float64(acc.modern2015) / size * 100.0
		outPct2010[i] = float64(acc.modern2010) / size * 100.0
		outModernity[i] = Clamp(outPct2015[i]/100.0, 0, 1)
		outDiversity[i] = len(acc.types)
	}

	features := dataframe.New(
		series.New(airlines, series.String, ColAirlineName),
		series.New(outCountry, series.String, ColCountry),
		series.New(outRegion, series.String, ColRegion),
		series.New(outFleet, series.Int, ColFleetSize),
		series.New(outAvgYear, series.Float, ColAvgEntryYear),
		series.New(outCount2015, series.Int, ColModernCount2015),
		series.New(outCount2010, series.Int, ColModernCount2010),
		series.New(outPct2015, series.Float, ColPctModern2015),
		series.New(outPct2010, series.Float, ColPctModern2010),
		series.New(outModernity, series.Float, ColModernityIndex),
		series.New(outDiversity, series.Int, ColDiversityScore),
	)
	if features.Error() != nil {
		return dataframe.DataFrame{}, errors.Wrap(features.Error(), errors.ErrCodeInternal, "failed to assemble feature table")
	}
	return features, nil
}

func hasColumn(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
