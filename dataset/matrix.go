package dataset

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gorgonia.org/tensor"
)

// Flatten turns float32 tensors of equal size into the rows of a matrix.
func Flatten(images []tensor.Tensor) (*mat.Dense, error) {
	if len(images) == 0 {
		return nil, errors.New("no images to flatten")
	}
	size := images[0].Shape().TotalSize()
	x := mat.NewDense(len(images), size, nil)
	for i, t := range images {
		data, ok := t.Data().([]float32)
		if !ok {
			return nil, errors.Errorf("image %d has dtype %v, want float32", i, t.Dtype())
		}
		if len(data) != size {
			return nil, errors.Errorf("image %d has %d values, want %d", i, len(data), size)
		}
		row := x.RawRowView(i)
		for j, v := range data {
			row[j] = float64(v)
		}
	}
	return x, nil
}

// Standardize shifts every column of x to zero mean and unit variance, in place.
// Constant columns are only centered.
func Standardize(x *mat.Dense) {
	rows, cols := x.Dims()
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		mean, std := stat.MeanStdDev(col, nil)
		floats.AddConst(-mean, col)
		if std > 0 {
			floats.Scale(1/std, col)
		}
		x.SetCol(j, col)
	}
}

// AppendBias returns x with an extra trailing column of ones, so a linear
// model without an intercept can learn one.
func AppendBias(x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		row := out.RawRowView(i)
		mat.Row(row[:cols], i, x)
		row[cols] = 1
	}
	return out
}

// Split shuffles the sample indices [0, n) and returns the first
// n - round(valFraction*n) as the training set, the rest as validation.
// The validation size is clamped to [0, n].
func Split(rng *rand.Rand, n int, valFraction float64) (train, val []int) {
	perm := rng.Perm(n)
	numVal := int(valFraction*float64(n) + 0.5)
	if numVal < 0 {
		numVal = 0
	}
	if numVal > n {
		numVal = n
	}
	return perm[:n-numVal], perm[n-numVal:]
}

// Rows gathers the given rows of x into a new matrix.
func Rows(x mat.Matrix, idx []int) *mat.Dense {
	_, cols := x.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	for i, r := range idx {
		mat.Row(out.RawRowView(i), r, x)
	}
	return out
}

// Labels gathers the given entries of y.
func Labels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, r := range idx {
		out[i] = y[r]
	}
	return out
}
