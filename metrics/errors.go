package metrics

import "github.com/pkg/errors"

var (
	// ErrLength is returned when predictions and ground truth differ in length.
	ErrLength = errors.New("prediction and ground truth lengths differ")
	// ErrUndefined is returned when a metric's denominator is zero.
	ErrUndefined = errors.New("metric undefined")
)
