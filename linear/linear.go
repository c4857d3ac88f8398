package linear

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LinearSoftmax scores a batch with X·W and returns the softmax cross-entropy
// loss and the gradient of that loss with respect to W.
//
// x is (batch, features), w is (features, classes) and target holds one class
// index per row of x. The returned gradient has the shape of w.
func LinearSoftmax(x, w mat.Matrix, target []int) (float64, *mat.Dense, error) {
	_, features := x.Dims()
	wRows, _ := w.Dims()
	if features != wRows {
		return 0, nil, errors.Wrapf(ErrShape, "X has %d features but W has %d rows", features, wRows)
	}
	var scores mat.Dense
	scores.Mul(x, w)
	loss, dScores, err := SoftmaxWithCrossEntropy(&scores, target)
	if err != nil {
		return 0, nil, err
	}
	var dW mat.Dense
	dW.Mul(x.T(), dScores)
	return loss, &dW, nil
}
