package segmentation

import (
	"path/filepath"

	"github.com/airnalytics/air-modernity/internal/domain/fleet"
	"github.com/airnalytics/air-modernity/internal/infrastructure/dataset"
	"github.com/airnalytics/air-modernity/internal/intelligence/knn"
	"github.com/airnalytics/air-modernity/internal/intelligence/scaler"
	"github.com/airnalytics/air-modernity/pkg/errors"
	"github.com/airnalytics/air-modernity/pkg/types/segment"
)

// Predictor scores a single airline feature vector against a persisted run:
// the scaler and classifier artifacts are loaded once and reused across
// predictions.  A Predictor is read-only after construction and safe for
// concurrent use.
type Predictor struct {
	scaler   *scaler.StandardScaler
	clf      *knn.Classifier
	features []string
}

// LoadPredictor reads the scaler and classifier artifacts from a pipeline
// output directory.
func LoadPredictor(outDir string) (*Predictor, error) {
	var scalerArt segment.ScalerArtifact
	if err := dataset.ReadJSON(filepath.Join(outDir, segment.FileScaler), &scalerArt); err != nil {
		return nil, err
	}
	std, err := scaler.FromParams(scaler.Params{
		Features: scalerArt.Features,
		Mean:     scalerArt.Mean,
		Scale:    scalerArt.Scale,
	})
	if err != nil {
		return nil, err
	}

	var clfArt segment.ClassifierArtifact
	if err := dataset.ReadJSON(filepath.Join(outDir, segment.FileClassifier), &clfArt); err != nil {
		return nil, err
	}
	if len(clfArt.Points) != len(clfArt.Labels) {
		return nil, errors.Newf(errors.ErrCodeArtifactInvalid,
			"classifier artifact has %d points but %d labels",
			len(clfArt.Points), len(clfArt.Labels))
	}
	clf, err := knn.Fit(clfArt.Points, clfArt.Labels, clfArt.Neighbors)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArtifactInvalid,
			"classifier artifact could not be refitted")
	}

	features := clfArt.Features
	if len(features) == 0 {
		features = fleet.FeatureColumns()
	}
	return &Predictor{scaler: std, clf: clf, features: features}, nil
}

// Features reports the feature names, in model order, that Predict expects.
func (p *Predictor) Features() []string {
	out := make([]string, len(p.features))
	copy(out, p.features)
	return out
}

// Predict assigns the cluster id for one airline feature vector.  The vector
// is standardised with the persisted scaler before the nearest-neighbor vote.
func (p *Predictor) Predict(v fleet.FeatureVector) (int, error) {
	scaled, err := p.scaler.TransformVector(v.Values())
	if err != nil {
		return 0, err
	}
	return p.clf.Predict(scaled)
}
