package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Softmax converts every row of scores into a probability distribution over
// the columns. A single sample is a 1xC matrix.
//
// The row maximum is subtracted before exponentiation, which leaves the result
// unchanged but keeps exp from overflowing on large scores.
func Softmax(scores mat.Matrix) *mat.Dense {
	probs := mat.DenseCopyOf(scores)
	rows, _ := probs.Dims()
	for i := 0; i < rows; i++ {
		row := probs.RawRowView(i)
		floats.AddConst(-floats.Max(row), row)
		for j, v := range row {
			row[j] = math.Exp(v)
		}
		floats.Scale(1/floats.Sum(row), row)
	}
	return probs
}
