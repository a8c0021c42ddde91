package knn

import (
	"sort"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

// Metrics summarises held-out classifier quality.
type Metrics struct {
	// Accuracy is the share of correctly classified evaluation rows, in [0,1].
	Accuracy float64

	// ConfusionMatrix is square, with rows as true labels and columns as
	// predicted labels, ordered by ClassIDs.
	ConfusionMatrix [][]int

	// ClassIDs are the sorted distinct cluster ids present in the evaluation
	// split (true or predicted), defining the matrix dimension and order.
	ClassIDs []int
}

// Evaluate scores the classifier on held-out rows.
func Evaluate(c *Classifier, X [][]float64, truth []int) (*Metrics, error) {
	if len(X) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "cannot evaluate on zero rows")
	}
	if len(X) != len(truth) {
		return nil, errors.Newf(errors.ErrCodeDimensionMismatch,
			"%d rows but %d labels", len(X), len(truth))
	}

	predicted, err := c.PredictBatch(X)
	if err != nil {
		return nil, err
	}

	idSet := make(map[int]struct{})
	for _, l := range truth {
		idSet[l] = struct{}{}
	}
	for _, l := range predicted {
		idSet[l] = struct{}{}
	}
	classIDs := make([]int, 0, len(idSet))
	for l := range idSet {
		classIDs = append(classIDs, l)
	}
	sort.Ints(classIDs)

	indexOf := make(map[int]int, len(classIDs))
	for i, l := range classIDs {
		indexOf[l] = i
	}

	matrix := make([][]int, len(classIDs))
	for i := range matrix {
		matrix[i] = make([]int, len(classIDs))
	}

	correct := 0
	for i := range truth {
		matrix[indexOf[truth[i]]][indexOf[predicted[i]]]++
		if truth[i] == predicted[i] {
			correct++
		}
	}

	return &Metrics{
		Accuracy:        float64(correct) / float64(len(truth)),
		ConfusionMatrix: matrix,
		ClassIDs:        classIDs,
	}, nil
}
