package linear

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// LossFunc evaluates a loss and its analytic gradient at w.
type LossFunc func(w *mat.Dense) (float64, *mat.Dense, error)

// CheckGradient compares the analytic gradient of f at w with central finite
// differences and returns an error naming the first entry that differs by more
// than tol (absolute or relative). w is not modified.
func CheckGradient(f LossFunc, w mat.Matrix, tol float64) error {
	rows, cols := w.Dims()
	_, analytic, err := f(mat.DenseCopyOf(w))
	if err != nil {
		return err
	}
	ar, ac := analytic.Dims()
	if ar != rows || ac != cols {
		return errors.Wrapf(ErrShape, "gradient is %dx%d, weights are %dx%d", ar, ac, rows, cols)
	}

	point := mat.DenseCopyOf(w).RawMatrix().Data
	var evalErr error
	numeric := fd.Gradient(nil, func(p []float64) float64 {
		loss, _, err := f(mat.NewDense(rows, cols, append([]float64(nil), p...)))
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return loss
	}, point, &fd.Settings{Formula: fd.Central})
	if evalErr != nil {
		return evalErr
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a, n := analytic.At(i, j), numeric[i*cols+j]
			if !scalar.EqualWithinAbsOrRel(a, n, tol, tol) {
				return errors.Errorf("gradient mismatch at (%d, %d): analytic %g, numeric %g", i, j, a, n)
			}
		}
	}
	return nil
}
