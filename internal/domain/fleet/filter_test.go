package fleet

import (
	"fmt"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

func scoreRecords(rows ...[]string) dataframe.DataFrame {
	records := [][]string{{ColAirlineName, ColFleetSize, ColModernityIndex}}
	records = append(records, rows...)
	return dataframe.LoadRecords(records)
}

func TestFilterExcludesSmallFleets(t *testing.T) {
	// Twenty airlines with fleet sizes 3,4,5,5,6,7,...,20: everything under
	// the threshold disappears entirely, it is not zero-scored.
	sizes := []int{3, 4, 5, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21}
	rows := make([][]string, 0, len(sizes))
	for i, size := range sizes {
		rows = append(rows, []string{fmt.Sprintf("Airline %02d", i), fmt.Sprintf("%d", size), "0.5"})
	}

	scored, err := Filter(scoreRecords(rows...), 5)
	require.NoError(t, err)
	assert.Equal(t, 18, scored.Nrow())

	for _, name := range scored.Col(ColAirlineName).Records() {
		assert.NotContains(t, []string{"Airline 00", "Airline 01"}, name)
	}
}

func TestFilterClampsGlitchedScores(t *testing.T) {
	scored, err := Filter(scoreRecords(
		[]string{"Over", "10", "1.2"}, // 120% glitch
		[]string{"Under", "10", "-0.3"},
		[]string{"Fine", "10", "0.71"},
	), 5)
	require.NoError(t, err)

	vals := scored.Col(ColModernityIndex).Float()
	assert.Equal(t, 1.0, vals[0])
	assert.Equal(t, 0.0, vals[1])
	assert.InDelta(t, 0.71, vals[2], 1e-9)
}

func TestFilterCoercesMalformedScoresToZero(t *testing.T) {
	scored, err := Filter(scoreRecords(
		[]string{"Broken", "10", "not-a-number"},
	), 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, scored.Col(ColModernityIndex).Float()[0])
}

func TestFilterMissingColumns(t *testing.T) {
	records := [][]string{
		{ColAirlineName, ColFleetSize},
		{"Aero Uno", "10"},
	}
	_, err := Filter(dataframe.LoadRecords(records), 5)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingColumn))
	assert.Contains(t, err.Error(), ColModernityIndex)
}

func TestEnsureNewGenShareDefaultsToModernity(t *testing.T) {
	df := scoreRecords(
		[]string{"Aero Uno", "10", "0.4"},
		[]string{"Zephyr Air", "12", "0.9"},
	)
	out := EnsureNewGenShare(df)
	require.NoError(t, out.Error())

	share := out.Col(ColNewGenShare).Float()
	assert.InDelta(t, 0.4, share[0], 1e-9)
	assert.InDelta(t, 0.9, share[1], 1e-9)

	// Present column is left untouched.
	again := EnsureNewGenShare(out)
	assert.Equal(t, out.Names(), again.Names())
}
