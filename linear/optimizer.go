package linear

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Optimizer applies a gradient to the weights it is handed, in place.
type Optimizer interface {
	Apply(w *mat.Dense, grad mat.Matrix) error
}

// SGD implements plain stochastic gradient descent: W <- W - lr * grad.
type SGD struct {
	LearningRate float64
}

// Apply updates w in place.
func (o *SGD) Apply(w *mat.Dense, grad mat.Matrix) error {
	if o.LearningRate <= 0 {
		return errors.Wrapf(ErrConfig, "learning rate must be positive, got %g", o.LearningRate)
	}
	wr, wc := w.Dims()
	gr, gc := grad.Dims()
	if wr != gr || wc != gc {
		return errors.Wrapf(ErrShape, "gradient is %dx%d, weights are %dx%d", gr, gc, wr, wc)
	}
	var step mat.Dense
	step.Scale(o.LearningRate, grad)
	w.Sub(w, &step)
	return nil
}
