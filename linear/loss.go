package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Epsilon is the floor probabilities are clipped to before taking a logarithm.
const Epsilon = 1e-10

// CrossEntropyLoss returns the mean over rows of -log(probs[i, target[i]]).
func CrossEntropyLoss(probs mat.Matrix, target []int) (float64, error) {
	rows, classes := probs.Dims()
	if err := checkTargets(rows, classes, target); err != nil {
		return 0, err
	}
	var loss float64
	for i, k := range target {
		p := math.Min(math.Max(probs.At(i, k), Epsilon), 1)
		loss -= math.Log(p)
	}
	return loss / float64(rows), nil
}

// SoftmaxWithCrossEntropy runs softmax and cross-entropy on raw scores and
// returns the loss together with its gradient with respect to the scores.
//
// The gradient is probs with 1 subtracted at each true class, divided by the
// number of rows so that it matches the mean loss.
func SoftmaxWithCrossEntropy(scores mat.Matrix, target []int) (float64, *mat.Dense, error) {
	probs := Softmax(scores)
	loss, err := CrossEntropyLoss(probs, target)
	if err != nil {
		return 0, nil, err
	}
	rows, _ := probs.Dims()
	for i, k := range target {
		probs.Set(i, k, probs.At(i, k)-1)
	}
	probs.Scale(1/float64(rows), probs)
	return loss, probs, nil
}
