// Package segmentation orchestrates the airline modernity pipeline: feature
// aggregation, fleet-size filtering, standardisation, k-means segmentation,
// 2D projection, surrogate classifier training, and artifact persistence.
//
// The pipeline is a strict linear batch: each stage is a pure function of its
// input table plus the configuration, stages run synchronously, and a stage
// failure aborts the remainder of the run.  Artifacts already written by
// completed stages are left in place: partial output on failure is expected
// behavior, and reruns overwrite prior artifacts.
package segmentation

import (
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"

	"github.com/airnalytics/air-modernity/internal/config"
	"github.com/airnalytics/air-modernity/internal/domain/fleet"
	"github.com/airnalytics/air-modernity/internal/infrastructure/dataset"
	"github.com/airnalytics/air-modernity/internal/infrastructure/monitoring/logging"
	"github.com/airnalytics/air-modernity/internal/intelligence/kmeans"
	"github.com/airnalytics/air-modernity/internal/intelligence/knn"
	"github.com/airnalytics/air-modernity/internal/intelligence/pca"
	"github.com/airnalytics/air-modernity/internal/intelligence/scaler"
	"github.com/airnalytics/air-modernity/pkg/errors"
	"github.com/airnalytics/air-modernity/pkg/types/segment"
)

// Pipeline runs the batch segmentation end to end.
type Pipeline struct {
	cfg *config.Config
	log logging.Logger
}

// NewPipeline constructs a Pipeline.  The configuration is treated as
// immutable for the lifetime of the run.
func NewPipeline(cfg *config.Config, log logging.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log.Named("pipeline")}
}

// RunSummary reports what a completed run produced.
type RunSummary struct {
	RunID    string
	Airlines int // airlines in the feature table, pre-filter
	Scored   int // airlines surviving the fleet-size filter
	Clusters int
	Inertia  float64
	Accuracy float64
	Elapsed  time.Duration
}

// Run executes the full pipeline and persists all artifacts under the
// configured output directory.
func (p *Pipeline) Run() (*RunSummary, error) {
	runID := uuid.NewString()
	log := p.log.With(logging.String("run_id", runID))
	start := time.Now()
	pcfg := p.cfg.Pipeline

	log.Info("pipeline starting",
		logging.String("input", p.cfg.Input.Path),
		logging.String("output_dir", p.cfg.Output.Dir),
		logging.Int("min_fleet_size", pcfg.MinFleetSize),
		logging.Int("clusters", pcfg.Clusters),
		logging.Any("seed", pcfg.Seed))

	raw, err := dataset.Read(p.cfg.Input.Path, p.cfg.Input.Sheet)
	if err != nil {
		return nil, stageFailed("load", err)
	}
	log.Info("fleet dataset loaded", logging.Int("aircraft_rows", raw.Nrow()))

	features, err := fleet.BuildFeatures(raw)
	if err != nil {
		return nil, stageFailed("features", err)
	}
	log.Info("features aggregated", logging.Int("airlines", features.Nrow()))
	if err := dataset.WriteCSV(features, p.artifactPath(segment.FileFeatures)); err != nil {
		return nil, stageFailed("features", err)
	}

	scores, err := fleet.Filter(features, pcfg.MinFleetSize)
	if err != nil {
		return nil, stageFailed("scores", err)
	}
	log.Info("fleet-size filter applied",
		logging.Int("kept", scores.Nrow()),
		logging.Int("dropped", features.Nrow()-scores.Nrow()))
	if err := dataset.WriteCSV(scores, p.artifactPath(segment.FileScores)); err != nil {
		return nil, stageFailed("scores", err)
	}

	if scores.Nrow() == 0 {
		return nil, stageFailed("clustering", errors.New(errors.ErrCodeEmptyDataset,
			"no airlines left after the fleet-size filter"))
	}
	if scores.Nrow() < pcfg.Clusters {
		return nil, stageFailed("clustering", errors.Newf(errors.ErrCodeEmptyDataset,
			"%d airlines remain after filtering, need at least %d to cluster",
			scores.Nrow(), pcfg.Clusters))
	}

	withShare := fleet.EnsureNewGenShare(scores)
	X, err := featureMatrix(withShare)
	if err != nil {
		return nil, stageFailed("scaling", err)
	}

	std, err := scaler.Fit(X, fleet.FeatureColumns())
	if err != nil {
		return nil, stageFailed("scaling", err)
	}
	scaled, err := std.Transform(X)
	if err != nil {
		return nil, stageFailed("scaling", err)
	}

	kcfg := kmeans.Config{
		Clusters:      pcfg.Clusters,
		Restarts:      pcfg.Restarts,
		MaxIterations: pcfg.MaxIterations,
		Seed:          pcfg.Seed,
	}
	model, err := kmeans.Fit(scaled, kcfg)
	if err != nil {
		return nil, stageFailed("clustering", err)
	}
	log.Info("clusters fitted",
		logging.Int("k", pcfg.Clusters),
		logging.Float64("inertia", model.Inertia))

	elbow, err := kmeans.Elbow(scaled, pcfg.ElbowMaxK, kcfg)
	if err != nil {
		return nil, stageFailed("clustering", err)
	}

	coords, err := pca.FitTransform(scaled)
	if err != nil {
		return nil, stageFailed("projection", err)
	}

	metrics, shipped, err := p.trainClassifier(scaled, model.Labels)
	if err != nil {
		return nil, stageFailed("classifier", err)
	}
	log.Info("surrogate classifier evaluated",
		logging.Float64("accuracy", metrics.Accuracy),
		logging.Int("eval_classes", len(metrics.ClassIDs)))

	clusters := withShare.
		Mutate(series.New(model.Labels, series.Int, fleet.ColCluster)).
		Mutate(series.New(column(coords, 0), series.Float, fleet.ColPCA1)).
		Mutate(series.New(column(coords, 1), series.Float, fleet.ColPCA2))
	if clusters.Error() != nil {
		return nil, stageFailed("artifacts", errors.Wrap(clusters.Error(), errors.ErrCodeInternal,
			"failed to assemble clusters table"))
	}

	if err := p.writeArtifacts(log, clusters, std, shipped, elbow, metrics); err != nil {
		return nil, stageFailed("artifacts", err)
	}

	summary := &RunSummary{
		RunID:    runID,
		Airlines: features.Nrow(),
		Scored:   scores.Nrow(),
		Clusters: pcfg.Clusters,
		Inertia:  model.Inertia,
		Accuracy: metrics.Accuracy,
		Elapsed:  time.Since(start),
	}
	log.Info("pipeline finished",
		logging.Int("airlines", summary.Airlines),
		logging.Int("scored", summary.Scored),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// trainClassifier evaluates a classifier trained on the stratified training
// subset, then ships one fitted on all labeled rows: the evaluation stays
// honest on held-out data while the persisted boundary uses every example.
func (p *Pipeline) trainClassifier(scaled [][]float64, labels []int) (*knn.Metrics, *knn.Classifier, error) {
	pcfg := p.cfg.Pipeline

	trainIdx, testIdx, err := knn.StratifiedSplit(labels, pcfg.TestFraction, pcfg.Seed)
	if err != nil {
		return nil, nil, err
	}

	trainX, trainY := subset(scaled, labels, trainIdx)
	testX, testY := subset(scaled, labels, testIdx)

	evalClf, err := knn.Fit(trainX, trainY, pcfg.Neighbors)
	if err != nil {
		return nil, nil, err
	}
	metrics, err := knn.Evaluate(evalClf, testX, testY)
	if err != nil {
		return nil, nil, err
	}

	shipped, err := knn.Fit(scaled, labels, pcfg.Neighbors)
	if err != nil {
		return nil, nil, err
	}
	return metrics, shipped, nil
}

// writeArtifacts persists the clusters table and the four model/diagnostic
// files.  The writes are independent: a failure does not roll back artifacts
// already written, every write is attempted, and the first failure is
// reported after the batch.
func (p *Pipeline) writeArtifacts(
	log logging.Logger,
	clusters dataframe.DataFrame,
	std *scaler.StandardScaler,
	clf *knn.Classifier,
	elbow []kmeans.Point,
	metrics *knn.Metrics,
) error {
	params := std.Params()
	points, labels := clf.ReferenceData()

	elbowArt := segment.ElbowArtifact{
		K:       make([]int, len(elbow)),
		Inertia: make([]float64, len(elbow)),
	}
	for i, pt := range elbow {
		elbowArt.K[i] = pt.K
		elbowArt.Inertia[i] = pt.Inertia
	}

	writes := []struct {
		name string
		fn   func() error
	}{
		{segment.FileClusters, func() error {
			return dataset.WriteCSV(clusters, p.artifactPath(segment.FileClusters))
		}},
		{segment.FileScaler, func() error {
			return dataset.WriteJSON(p.artifactPath(segment.FileScaler), segment.ScalerArtifact{
				Features: params.Features,
				Mean:     params.Mean,
				Scale:    params.Scale,
			})
		}},
		{segment.FileClassifier, func() error {
			return dataset.WriteJSON(p.artifactPath(segment.FileClassifier), segment.ClassifierArtifact{
				Neighbors: clf.Neighbors(),
				Features:  fleet.FeatureColumns(),
				Points:    points,
				Labels:    labels,
			})
		}},
		{segment.FileElbow, func() error {
			return dataset.WriteJSON(p.artifactPath(segment.FileElbow), elbowArt)
		}},
		{segment.FileMetrics, func() error {
			return dataset.WriteJSON(p.artifactPath(segment.FileMetrics), segment.MetricsArtifact{
				Accuracy:        metrics.Accuracy,
				ConfusionMatrix: metrics.ConfusionMatrix,
				ClassIDs:        metrics.ClassIDs,
			})
		}},
	}

	var firstErr error
	for _, w := range writes {
		if err := w.fn(); err != nil {
			log.Error("artifact write failed", logging.String("artifact", w.name), logging.Err(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Info("artifact written", logging.String("artifact", w.name))
	}
	return firstErr
}

func (p *Pipeline) artifactPath(name string) string {
	return filepath.Join(p.cfg.Output.Dir, name)
}

// stageFailed tags an error with the stage it came from while preserving the
// underlying error code.  The cause is carried in the detail so the rendered
// message keeps the column names and row counts reported by the stage.
func stageFailed(stage string, err error) error {
	return errors.Wrap(err, errors.ErrCodeUnknown, "stage "+stage+" failed").WithDetail(err.Error())
}

// featureMatrix extracts the four model features from the table, coercing
// each value to numeric with unparsable values becoming 0.
func featureMatrix(df dataframe.DataFrame) ([][]float64, error) {
	cols := fleet.FeatureColumns()
	records := make([][]string, len(cols))
	for j, col := range cols {
		if !contains(df.Names(), col) {
			return nil, errors.MissingColumn("scores table", []string{col}, df.Names())
		}
		records[j] = df.Col(col).Records()
	}

	X := make([][]float64, df.Nrow())
	for i := range X {
		row := make([]float64, len(cols))
		for j := range cols {
			v, ok := fleet.ParseFloat(records[j][i])
			if !ok {
				v = 0
			}
			row[j] = v
		}
		X[i] = row
	}
	return X, nil
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

func subset(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	outX := make([][]float64, len(idx))
	outY := make([]int, len(idx))
	for i, id := range idx {
		outX[i] = X[id]
		outY[i] = y[id]
	}
	return outX, outY
}

func column(coords [][]float64, j int) []float64 {
	out := make([]float64, len(coords))
	for i, c := range coords {
		out[i] = c[j]
	}
	return out
}
