package linear

import "github.com/pkg/errors"

var (
	// ErrShape is returned when matrix dimensions or label vectors don't line up.
	ErrShape = errors.New("shape mismatch")
	// ErrConfig is returned for invalid training hyperparameters.
	ErrConfig = errors.New("invalid training config")
	// ErrNotFitted is returned by prediction methods called before the first Fit.
	ErrNotFitted = errors.New("classifier has no weights")
)

// checkTargets verifies there is one target per row and every target names a column.
func checkTargets(rows, classes int, target []int) error {
	if rows != len(target) {
		return errors.Wrapf(ErrShape, "%d rows but %d targets", rows, len(target))
	}
	for i, k := range target {
		if k < 0 || k >= classes {
			return errors.Wrapf(ErrShape, "target %d at index %d out of range [0, %d)", k, i, classes)
		}
	}
	return nil
}
