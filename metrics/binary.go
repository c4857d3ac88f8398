package metrics

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ConfusionMatrix counts the outcomes of a binary classification.
type ConfusionMatrix struct {
	TP, FP, FN, TN int
}

// Total returns the number of classified samples.
func (m ConfusionMatrix) Total() int {
	return m.TP + m.FP + m.FN + m.TN
}

// NewConfusionMatrix tallies prediction against groundTruth element by element.
func NewConfusionMatrix(prediction, groundTruth []bool) (ConfusionMatrix, error) {
	var m ConfusionMatrix
	if len(prediction) != len(groundTruth) {
		return m, errors.Wrapf(ErrLength, "%d predictions, %d labels", len(prediction), len(groundTruth))
	}
	for i, p := range prediction {
		switch g := groundTruth[i]; {
		case p && g:
			m.TP++
		case p && !g:
			m.FP++
		case !p && g:
			m.FN++
		default:
			m.TN++
		}
	}
	assertTotal(m, len(prediction))
	return m, nil
}

// Binary holds the metrics of a binary classification.
type Binary struct {
	ConfusionMatrix
	Precision float64
	Recall    float64
	F1        float64
	Accuracy  float64
}

// BinaryClassification computes precision, recall, F1 and accuracy.
//
// A metric whose denominator is zero (no positive predictions, no positive
// labels, or no samples) is set to NaN and reported through an error wrapping
// ErrUndefined; the confusion matrix and the other metrics are still filled in.
func BinaryClassification(prediction, groundTruth []bool) (Binary, error) {
	m, err := NewConfusionMatrix(prediction, groundTruth)
	if err != nil {
		return Binary{}, err
	}
	var undefined []string
	ratio := func(name string, num, den float64) float64 {
		if den == 0 {
			undefined = append(undefined, name)
			return math.NaN()
		}
		return num / den
	}

	b := Binary{ConfusionMatrix: m}
	b.Precision = ratio("precision", float64(m.TP), float64(m.TP+m.FP))
	b.Recall = ratio("recall", float64(m.TP), float64(m.TP+m.FN))
	b.Accuracy = ratio("accuracy", float64(m.TP+m.TN), float64(m.Total()))
	// NaN inputs leave the sum NaN, which is not zero, so F1 is NaN as well.
	b.F1 = ratio("f1", 2*b.Precision*b.Recall, b.Precision+b.Recall)

	if len(undefined) > 0 {
		return b, errors.Wrapf(ErrUndefined, "zero denominator for %s", strings.Join(undefined, ", "))
	}
	return b, nil
}

// OneVsRest projects multiclass labels onto the binary task "is class".
func OneVsRest(prediction, groundTruth []int, class int) ([]bool, []bool) {
	p := make([]bool, len(prediction))
	for i, v := range prediction {
		p[i] = v == class
	}
	g := make([]bool, len(groundTruth))
	for i, v := range groundTruth {
		g[i] = v == class
	}
	return p, g
}
