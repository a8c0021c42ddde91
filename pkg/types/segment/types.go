// Package segment defines the persisted artifact contract between the
// pipeline and its downstream consumers (the dashboard and its what-if
// simulator).  Every artifact is a portable, self-describing JSON document:
// explicit arrays rather than an opaque serialized object graph, so any
// implementation language can reload and apply them.
package segment

// ScalerArtifact carries the fitted standardisation parameters.
// Mean and Scale are index-aligned with Features.
type ScalerArtifact struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
}

// ClassifierArtifact carries the surrogate classifier's reference data:
// standardized feature vectors and their cluster labels.  Together with the
// scaler parameters this is sufficient to classify an arbitrary raw profile.
type ClassifierArtifact struct {
	Neighbors int         `json:"neighbors"`
	Features  []string    `json:"features"`
	Points    [][]float64 `json:"points"`
	Labels    []int       `json:"labels"`
}

// ElbowArtifact is the inertia-versus-k diagnostic.  K and Inertia are the
// same length and index-aligned.
type ElbowArtifact struct {
	K       []int     `json:"k"`
	Inertia []float64 `json:"inertia"`
}

// MetricsArtifact summarises held-out classifier quality.  The confusion
// matrix is square; row and column order is the sorted distinct cluster ids
// present in the evaluation split.
type MetricsArtifact struct {
	Accuracy        float64 `json:"accuracy"`
	ConfusionMatrix [][]int `json:"confusion_matrix"`
	ClassIDs        []int   `json:"class_ids"`
}

// Artifact file names within the output directory.
const (
	FileFeatures   = "airlines_features.csv"
	FileScores     = "airlines_scores.csv"
	FileClusters   = "airlines_clusters.csv"
	FileScaler     = "scaler.json"
	FileClassifier = "knn_model.json"
	FileElbow      = "elbow_data.json"
	FileMetrics    = "knn_metrics.json"
)
