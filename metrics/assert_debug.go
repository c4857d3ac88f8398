//go:build debug

package metrics

import "fmt"

func assertTotal(m ConfusionMatrix, n int) {
	if m.Total() != n {
		panic(fmt.Sprintf("bad confusion matrix: %+v sums to %d, want %d", m, m.Total(), n))
	}
}
