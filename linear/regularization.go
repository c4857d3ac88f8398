package linear

import "gonum.org/v1/gonum/mat"

// L2Regularization returns reg * sum(W^2) and its gradient 2 * reg * W.
// It only depends on the weights; reg is expected to be non-negative.
func L2Regularization(w mat.Matrix, reg float64) (float64, *mat.Dense) {
	var sq mat.Dense
	sq.MulElem(w, w)
	var grad mat.Dense
	grad.Scale(2*reg, w)
	return reg * mat.Sum(&sq), &grad
}
