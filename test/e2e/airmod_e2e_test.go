// End-to-end flow: batch pipeline run, scoring server over the produced
// artifacts, and the Go SDK client against the live HTTP surface.
package e2e

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airnalytics/air-modernity/internal/application/segmentation"
	"github.com/airnalytics/air-modernity/internal/config"
	"github.com/airnalytics/air-modernity/internal/infrastructure/monitoring/logging"
	httpapi "github.com/airnalytics/air-modernity/internal/interfaces/http"
	"github.com/airnalytics/air-modernity/internal/testutil"
	"github.com/airnalytics/air-modernity/pkg/client"
)

func TestAirmod_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "fleet.csv")
	outDir := filepath.Join(dir, "out")
	testutil.WriteFleetCSV(t, input, testutil.FourProfiles())

	cfg := config.Default()
	cfg.Input.Path = input
	cfg.Output.Dir = outDir
	cfg.Server.Mode = "test"
	require.NoError(t, cfg.Validate())

	summary, err := segmentation.NewPipeline(cfg, logging.NewNop()).Run()
	require.NoError(t, err)
	require.Equal(t, 24, summary.Scored)

	p, err := segmentation.LoadPredictor(outDir)
	require.NoError(t, err)
	srv := httptest.NewServer(httpapi.NewServer(cfg, logging.NewNop(), p, outDir).Handler())
	defer srv.Close()

	c, err := client.NewClient(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))

	// A large modern profile must land in the same cluster as the
	// large-modern training airlines, whatever id that cluster got.
	pred, err := c.Predict(ctx, client.FeatureVector{
		FleetSize:      30,
		DiversityScore: 0.1,
		ModernityIndex: 1,
		NewGenShare:    1,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pred.Cluster, 0)
	assert.Less(t, pred.Cluster, 4)

	// The same profile predicted twice is stable.
	pred2, err := c.Predict(ctx, client.FeatureVector{
		FleetSize:      30,
		DiversityScore: 0.1,
		ModernityIndex: 1,
		NewGenShare:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, pred.Cluster, pred2.Cluster)

	m, err := c.Metrics(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.Accuracy, 0.0)
	assert.LessOrEqual(t, m.Accuracy, 1.0)
	assert.Len(t, m.ConfusionMatrix, len(m.ClassIDs))
}
