package segmentation

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airnalytics/air-modernity/internal/domain/fleet"
	"github.com/airnalytics/air-modernity/internal/infrastructure/dataset"
	"github.com/airnalytics/air-modernity/internal/infrastructure/monitoring/logging"
	"github.com/airnalytics/air-modernity/internal/testutil"
	"github.com/airnalytics/air-modernity/pkg/errors"
	"github.com/airnalytics/air-modernity/pkg/types/segment"
)

// runFixture executes the pipeline on the four-profile fleet and returns the
// output directory.
func runFixture(t *testing.T) string {
	t.Helper()
	input := filepath.Join(t.TempDir(), "fleet.csv")
	testutil.WriteFleetCSV(t, input, testutil.FourProfiles())
	cfg := testConfig(t, input)
	_, err := NewPipeline(cfg, logging.NewNop()).Run()
	require.NoError(t, err)
	return cfg.Output.Dir
}

func TestLoadPredictor_RoundTrip(t *testing.T) {
	outDir := runFixture(t)

	p, err := LoadPredictor(outDir)
	require.NoError(t, err)
	assert.Equal(t, fleet.FeatureColumns(), p.Features())

	clusters, err := dataset.Read(filepath.Join(outDir, segment.FileClusters), "")
	require.NoError(t, err)

	// Feeding a scored airline's own features back through the predictor
	// must reproduce its recorded cluster id.
	cols := map[string][]string{}
	for _, name := range append(fleet.FeatureColumns(), fleet.ColCluster) {
		cols[name] = clusters.Col(name).Records()
	}
	for i := 0; i < clusters.Nrow(); i++ {
		v := fleet.FeatureVector{
			FleetSize:      mustFloat(t, cols[fleet.ColFleetSize][i]),
			DiversityScore: mustFloat(t, cols[fleet.ColDiversityScore][i]),
			ModernityIndex: mustFloat(t, cols[fleet.ColModernityIndex][i]),
			NewGenShare:    mustFloat(t, cols[fleet.ColNewGenShare][i]),
		}
		want, err := strconv.Atoi(cols[fleet.ColCluster][i])
		require.NoError(t, err)

		got, err := p.Predict(v)
		require.NoError(t, err)
		assert.Equal(t, want, got, "row %d", i)
	}
}

func TestLoadPredictor_MissingArtifacts(t *testing.T) {
	_, err := LoadPredictor(filepath.Join(t.TempDir(), "nowhere"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingInput))
}

func TestLoadPredictor_CorruptClassifier(t *testing.T) {
	outDir := runFixture(t)

	art := segment.ClassifierArtifact{
		Neighbors: 5,
		Features:  fleet.FeatureColumns(),
		Points:    [][]float64{{0, 0, 0, 0}, {1, 1, 1, 1}},
		Labels:    []int{0},
	}
	require.NoError(t, dataset.WriteJSON(filepath.Join(outDir, segment.FileClassifier), art))

	_, err := LoadPredictor(outDir)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactInvalid))
}

func mustFloat(t *testing.T, s string) float64 {
	t.Helper()
	f, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return f
}
