package linear

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"linsoft/dataset"
	"linsoft/metrics"
)

func TestTrainConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultTrainConfig().Validate())

	tests := []struct {
		description string
		modify      func(*TrainConfig)
	}{
		{"zero batch size", func(c *TrainConfig) { c.BatchSize = 0 }},
		{"zero learning rate", func(c *TrainConfig) { c.LearningRate = 0 }},
		{"negative regularization", func(c *TrainConfig) { c.Reg = -1e-3 }},
		{"zero epochs", func(c *TrainConfig) { c.Epochs = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			cfg := DefaultTrainConfig()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrConfig)
		})
	}
}

func TestFitSeparableClusters(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x, y := dataset.GaussianClusters(rng, 200, 2, 2, 2, 0.5)

	clf := NewClassifier(WithSeed(3))
	cfg := TrainConfig{BatchSize: 20, LearningRate: 0.01, Reg: 1e-4, Epochs: 8}
	history, err := clf.Fit(x, y, cfg)
	require.NoError(t, err)
	require.Len(t, history, cfg.Epochs)
	for i := 1; i < len(history); i++ {
		assert.Less(t, history[i], history[i-1], "epoch %d loss should decrease: %v", i, history)
	}

	pred, err := clf.Predict(x)
	require.NoError(t, err)
	acc, err := metrics.MulticlassAccuracy(pred, y)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, acc, 0.95)
}

func TestFitThreeClasses(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	x, y := dataset.GaussianClusters(rng, 300, 3, 2, 4, 0.5)

	clf := NewClassifier(WithSeed(5))
	_, err := clf.Fit(x, y, TrainConfig{BatchSize: 32, LearningRate: 0.05, Reg: 1e-4, Epochs: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, clf.NumFeatures())
	assert.Equal(t, 3, clf.NumClasses())

	pred, err := clf.Predict(x)
	require.NoError(t, err)
	acc, err := metrics.MulticlassAccuracy(pred, y)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, acc, 0.95)

	probs, err := clf.PredictProba(x)
	require.NoError(t, err)
	r, c := probs.Dims()
	assert.Equal(t, 300, r)
	assert.Equal(t, 3, c)
}

func TestFitSingleFullBatchStep(t *testing.T) {
	x, w0, y := testBatch()
	const lr, reg = 0.1, 0.01

	ceLoss, dW, err := LinearSoftmax(x, w0, y)
	require.NoError(t, err)
	regLoss, dReg := L2Regularization(w0, reg)
	var want mat.Dense
	want.Add(dW, dReg)
	want.Scale(-lr, &want)
	want.Add(w0, &want)

	clf := NewClassifier(WithWeights(w0), WithSeed(1))
	history, err := clf.Fit(x, y, TrainConfig{BatchSize: 4, LearningRate: lr, Reg: reg, Epochs: 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{ceLoss + regLoss}, history, 1e-12)
	assert.True(t, mat.EqualApprox(&want, clf.Weights(), 1e-12), "weights = %v", mat.Formatted(clf.Weights()))
}

func TestFitWarmStart(t *testing.T) {
	x, y := dataset.GaussianClusters(rand.New(rand.NewSource(3)), 50, 2, 2, 2, 0.5)
	clf := NewClassifier(WithSeed(4))
	cfg := TrainConfig{BatchSize: 10, LearningRate: 0.01, Reg: 0, Epochs: 1}

	_, err := clf.Fit(x, y, cfg)
	require.NoError(t, err)
	first := clf.Weights()

	_, err = clf.Fit(x, y, cfg)
	require.NoError(t, err)
	assert.False(t, mat.Equal(first, clf.Weights()))
	r, c := clf.Weights().Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)

	_, err = clf.Fit(x, append(y[:len(y)-1:len(y)-1], 2), cfg)
	assert.ErrorIs(t, err, ErrShape)
	_, err = clf.Fit(mat.NewDense(50, 3, nil), y, cfg)
	assert.ErrorIs(t, err, ErrShape)
}

func TestFitOnEpoch(t *testing.T) {
	x, _, y := testBatch()
	var epochs []int
	var losses []float64
	cfg := TrainConfig{BatchSize: 3, LearningRate: 0.1, Reg: 1e-3, Epochs: 4,
		OnEpoch: func(epoch int, loss float64) {
			epochs = append(epochs, epoch)
			losses = append(losses, loss)
		}}
	history, err := NewClassifier(WithSeed(9)).Fit(x, y, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, epochs)
	assert.Equal(t, history, losses)

	cfg.OnEpoch = nil
	silent, err := NewClassifier(WithSeed(9)).Fit(x, y, cfg)
	require.NoError(t, err)
	assert.Equal(t, history, silent)
}

func TestFitInvalidInput(t *testing.T) {
	x, _, y := testBatch()
	clf := NewClassifier(WithSeed(1))
	cfg := DefaultTrainConfig()

	_, err := clf.Fit(x, y[:3], cfg)
	assert.ErrorIs(t, err, ErrShape)
	_, err = clf.Fit(x, []int{0, -1, 1, 0}, cfg)
	assert.ErrorIs(t, err, ErrShape)
	cfg.BatchSize = 0
	_, err = clf.Fit(x, y, cfg)
	assert.ErrorIs(t, err, ErrConfig)
	cfg.BatchSize = 10
	_, err = clf.Fit(noRows{cols: 3}, nil, cfg)
	assert.ErrorIs(t, err, ErrShape)
	assert.Nil(t, clf.Weights(), "failed fits must not initialize weights")
}

// noRows is a matrix with columns but no samples.
type noRows struct{ cols int }

func (m noRows) Dims() (int, int) { return 0, m.cols }
func (m noRows) At(i, j int) float64 { panic(mat.ErrIndexOutOfRange) }
func (m noRows) T() mat.Matrix { return mat.Transpose{Matrix: m} }

func TestFitWarmStartNoSamples(t *testing.T) {
	_, w, _ := testBatch()
	clf := NewClassifier(WithWeights(w), WithSeed(1))
	history, err := clf.Fit(noRows{cols: 3}, nil, TrainConfig{BatchSize: 2, LearningRate: 0.1, Epochs: 1})
	assert.ErrorIs(t, err, ErrShape)
	assert.Empty(t, history)
	assert.True(t, mat.Equal(w, clf.Weights()))
}

func TestPredict(t *testing.T) {
	clf := NewClassifier()
	_, err := clf.Predict(mat.NewDense(1, 2, nil))
	assert.ErrorIs(t, err, ErrNotFitted)

	w := mat.NewDense(2, 3, []float64{
		1, 0, -1,
		0, 1, 0,
	})
	clf = NewClassifier(WithWeights(w))
	x := mat.NewDense(4, 2, []float64{
		2, 1,
		0, 3,
		-1, -5,
		0, 0,
	})
	pred, err := clf.Predict(x)
	require.NoError(t, err)
	// The last row scores zero everywhere and the tie goes to class 0.
	assert.Equal(t, []int{0, 1, 2, 0}, pred)

	_, err = clf.Predict(mat.NewDense(1, 3, nil))
	assert.ErrorIs(t, err, ErrShape)
}

func TestWeightsIsACopy(t *testing.T) {
	clf := NewClassifier(WithWeights(mat.NewDense(1, 2, []float64{1, 2})))
	clf.Weights().Set(0, 0, 42)
	assert.Equal(t, 1.0, clf.Weights().At(0, 0))
}
