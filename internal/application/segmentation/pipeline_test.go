package segmentation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airnalytics/air-modernity/internal/config"
	"github.com/airnalytics/air-modernity/internal/domain/fleet"
	"github.com/airnalytics/air-modernity/internal/infrastructure/dataset"
	"github.com/airnalytics/air-modernity/internal/infrastructure/monitoring/logging"
	"github.com/airnalytics/air-modernity/internal/testutil"
	"github.com/airnalytics/air-modernity/pkg/errors"
	"github.com/airnalytics/air-modernity/pkg/types/segment"
)

func testConfig(t *testing.T, input string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Input.Path = input
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestPipeline_Run_EndToEnd(t *testing.T) {
	input := filepath.Join(t.TempDir(), "fleet.csv")
	testutil.WriteFleetCSV(t, input, testutil.FourProfiles())
	cfg := testConfig(t, input)

	summary, err := NewPipeline(cfg, logging.NewNop()).Run()
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 24, summary.Airlines)
	assert.Equal(t, 24, summary.Scored)
	assert.Equal(t, 4, summary.Clusters)
	assert.GreaterOrEqual(t, summary.Accuracy, 0.0)
	assert.LessOrEqual(t, summary.Accuracy, 1.0)

	for _, name := range []string{
		segment.FileFeatures,
		segment.FileScores,
		segment.FileClusters,
		segment.FileScaler,
		segment.FileClassifier,
		segment.FileElbow,
		segment.FileMetrics,
	} {
		_, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		assert.NoError(t, err, "artifact %s should exist", name)
	}

	clusters, err := dataset.Read(filepath.Join(cfg.Output.Dir, segment.FileClusters), "")
	require.NoError(t, err)
	assert.Equal(t, 24, clusters.Nrow())
	for _, col := range []string{
		fleet.ColAirlineName, fleet.ColNewGenShare,
		fleet.ColCluster, fleet.ColPCA1, fleet.ColPCA2,
	} {
		assert.Contains(t, clusters.Names(), col)
	}

	// Four well-separated profiles must land in four distinct clusters, and
	// every airline sharing a profile must share a cluster.
	names := clusters.Col(fleet.ColAirlineName).Records()
	labels := clusters.Col(fleet.ColCluster).Records()
	byProfile := map[string]map[string]bool{}
	for i, name := range names {
		profile := name[:strings.LastIndex(name, "-")]
		if byProfile[profile] == nil {
			byProfile[profile] = map[string]bool{}
		}
		byProfile[profile][labels[i]] = true
	}
	require.Len(t, byProfile, 4)
	seen := map[string]bool{}
	for profile, clusterSet := range byProfile {
		assert.Len(t, clusterSet, 1, "profile %s split across clusters", profile)
		for c := range clusterSet {
			assert.False(t, seen[c], "cluster %s assigned to two profiles", c)
			seen[c] = true
		}
	}

	var elbow segment.ElbowArtifact
	require.NoError(t, dataset.ReadJSON(filepath.Join(cfg.Output.Dir, segment.FileElbow), &elbow))
	require.Len(t, elbow.K, cfg.Pipeline.ElbowMaxK)
	for i := 1; i < len(elbow.Inertia); i++ {
		assert.LessOrEqual(t, elbow.Inertia[i], elbow.Inertia[i-1],
			"elbow inertia must be non-increasing in k")
	}

	var metrics segment.MetricsArtifact
	require.NoError(t, dataset.ReadJSON(filepath.Join(cfg.Output.Dir, segment.FileMetrics), &metrics))
	assert.Len(t, metrics.ConfusionMatrix, len(metrics.ClassIDs))
}

func TestPipeline_Run_Deterministic(t *testing.T) {
	input := filepath.Join(t.TempDir(), "fleet.csv")
	testutil.WriteFleetCSV(t, input, testutil.FourProfiles())

	outputs := make([][]byte, 2)
	for run := range outputs {
		cfg := testConfig(t, input)
		_, err := NewPipeline(cfg, logging.NewNop()).Run()
		require.NoError(t, err)

		var combined []byte
		for _, name := range []string{
			segment.FileClusters, segment.FileScaler,
			segment.FileClassifier, segment.FileElbow, segment.FileMetrics,
		} {
			data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, name))
			require.NoError(t, err)
			combined = append(combined, data...)
		}
		outputs[run] = combined
	}
	assert.Equal(t, outputs[0], outputs[1], "identical input and seed must reproduce identical artifacts")
}

func TestPipeline_Run_MissingInput(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "absent.csv"))

	_, err := NewPipeline(cfg, logging.NewNop()).Run()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingInput))
}

func TestPipeline_Run_TooFewAirlines(t *testing.T) {
	input := filepath.Join(t.TempDir(), "fleet.csv")
	// Three airlines survive the filter, fewer than the four clusters.
	testutil.WriteFleetCSV(t, input, []testutil.FleetGroup{
		{Prefix: "lone", Airlines: 3, Fleet: 8, Types: 2, Year: 2016},
	})
	cfg := testConfig(t, input)

	_, err := NewPipeline(cfg, logging.NewNop()).Run()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyDataset))
}

func TestPipeline_Run_AllFiltered(t *testing.T) {
	input := filepath.Join(t.TempDir(), "fleet.csv")
	testutil.WriteFleetCSV(t, input, []testutil.FleetGroup{
		{Prefix: "tiny", Airlines: 6, Fleet: 2, Types: 1, Year: 2016},
	})
	cfg := testConfig(t, input)

	_, err := NewPipeline(cfg, logging.NewNop()).Run()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyDataset))
}

func TestPipeline_Run_MissingColumn(t *testing.T) {
	input := filepath.Join(t.TempDir(), "fleet.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"airline_name,country,region\nAir One,Freedonia,Testland\n"), 0o644))
	cfg := testConfig(t, input)

	_, err := NewPipeline(cfg, logging.NewNop()).Run()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingColumn))

	// The rendered stage error must still name the missing and the available
	// columns from the underlying cause.
	assert.Contains(t, err.Error(), fleet.ColEntryYear)
	assert.Contains(t, err.Error(), "available columns")
	assert.Contains(t, err.Error(), fleet.ColAirlineName)
}
