package metrics

import "github.com/pkg/errors"

// MulticlassAccuracy returns the fraction of positions where prediction equals groundTruth.
func MulticlassAccuracy(prediction, groundTruth []int) (float64, error) {
	if len(prediction) != len(groundTruth) {
		return 0, errors.Wrapf(ErrLength, "%d predictions, %d labels", len(prediction), len(groundTruth))
	}
	if len(prediction) == 0 {
		return 0, errors.Wrap(ErrUndefined, "accuracy of zero samples")
	}
	correct := 0
	for i, p := range prediction {
		if p == groundTruth[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(prediction)), nil
}
