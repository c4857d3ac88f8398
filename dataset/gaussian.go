package dataset

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// GaussianClusters draws n samples from `classes` isotropic Gaussians with
// standard deviation spread. The class means lie on a circle of the given
// radius in the first two dimensions (the others are centered at zero), so
// the classes are linearly separable through the origin when spread is small
// compared to radius. Labels cycle through the classes.
func GaussianClusters(rng *rand.Rand, n, classes, dims int, radius, spread float64) (*mat.Dense, []int) {
	x := mat.NewDense(n, dims, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		label := i % classes
		y[i] = label
		angle := 2 * math.Pi * float64(label) / float64(classes)
		row := x.RawRowView(i)
		for d := range row {
			var center float64
			switch d {
			case 0:
				center = radius * math.Cos(angle)
			case 1:
				center = radius * math.Sin(angle)
			}
			row[d] = center + spread*rng.NormFloat64()
		}
	}
	return x, y
}
