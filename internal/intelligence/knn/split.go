package knn

import (
	"math"
	"math/rand"
	"sort"

	"github.com/airnalytics/air-modernity/pkg/errors"
)

// StratifiedSplit partitions row indices into train and test sets so that
// each label keeps roughly testFraction of its members in the test set, with
// at least one member on each side.  A label with fewer than 2 members cannot
// be stratified and fails explicitly rather than silently degrading the
// evaluation.
//
// The split is a pure function of labels and seed: per-label index groups are
// shuffled with a single seeded generator, visiting labels in sorted order.
func StratifiedSplit(labels []int, testFraction float64, seed int64) (train, test []int, err error) {
	if len(labels) == 0 {
		return nil, nil, errors.New(errors.ErrCodeEmptyDataset, "cannot split zero rows")
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, errors.Newf(errors.ErrCodeValidation,
			"test fraction must be in (0,1), got %g", testFraction)
	}

	byLabel := make(map[int][]int)
	for i, l := range labels {
		byLabel[l] = append(byLabel[l], i)
	}

	classes := make([]int, 0, len(byLabel))
	for l := range byLabel {
		classes = append(classes, l)
	}
	sort.Ints(classes)

	for _, l := range classes {
		if len(byLabel[l]) < 2 {
			return nil, nil, errors.Newf(errors.ErrCodeInsufficientClassSupport,
				"cluster %d has %d member(s), need at least 2 to stratify", l, len(byLabel[l]))
		}
	}

	rng := rand.New(rand.NewSource(seed))
	for _, l := range classes {
		group := byLabel[l]
		rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })

		nTest := int(math.Round(testFraction * float64(len(group))))
		if nTest < 1 {
			nTest = 1
		}
		if nTest > len(group)-1 {
			nTest = len(group) - 1
		}

		test = append(test, group[:nTest]...)
		train = append(train, group[nTest:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}
