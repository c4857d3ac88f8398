package linear

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"

	"linsoft/dataset"
)

// EpochFunc is called once at the end of every epoch with its index and mean loss.
type EpochFunc func(epoch int, loss float64)

// TrainConfig holds the hyperparameters of a single Fit call.
type TrainConfig struct {
	BatchSize    int
	LearningRate float64
	// Reg is the L2 regularization strength.
	Reg    float64
	Epochs int

	// OnEpoch reports progress. It has no effect on training and may be nil.
	OnEpoch EpochFunc
}

// DefaultTrainConfig returns batch size 100, learning rate 1e-7, reg 1e-5 and a single epoch.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		BatchSize:    100,
		LearningRate: 1e-7,
		Reg:          1e-5,
		Epochs:       1,
	}
}

// Validate reports the first hyperparameter out of range.
func (c TrainConfig) Validate() error {
	switch {
	case c.BatchSize <= 0:
		return errors.Wrapf(ErrConfig, "batch size must be positive, got %d", c.BatchSize)
	case c.LearningRate <= 0:
		return errors.Wrapf(ErrConfig, "learning rate must be positive, got %g", c.LearningRate)
	case c.Reg < 0:
		return errors.Wrapf(ErrConfig, "regularization must be non-negative, got %g", c.Reg)
	case c.Epochs < 1:
		return errors.Wrapf(ErrConfig, "epochs must be at least 1, got %d", c.Epochs)
	}
	return nil
}

// Classifier is a linear softmax classifier trained with mini-batch SGD.
//
// The weight matrix (features x classes) is created on the first Fit and kept
// for later calls, which continue training it. A Classifier must not be used
// from several goroutines at once.
type Classifier struct {
	w         *mat.Dense
	rng       *rand.Rand
	initScale float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithSeed fixes the source used for weight initialization and shuffling.
func WithSeed(seed int64) Option {
	return func(c *Classifier) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithWeights starts the classifier from a copy of w instead of random weights.
func WithWeights(w mat.Matrix) Option {
	return func(c *Classifier) {
		c.w = mat.DenseCopyOf(w)
	}
}

// WithInitScale sets the standard deviation of the initial random weights.
func WithInitScale(scale float64) Option {
	return func(c *Classifier) {
		c.initScale = scale
	}
}

// NewClassifier returns an unfitted classifier configured by opts.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{initScale: 0.001}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// Weights returns a copy of the current weights, or nil before the first Fit.
func (c *Classifier) Weights() *mat.Dense {
	if c.w == nil {
		return nil
	}
	return mat.DenseCopyOf(c.w)
}

// NumFeatures returns the number of rows of the weight matrix.
func (c *Classifier) NumFeatures() int {
	if c.w == nil {
		return 0
	}
	r, _ := c.w.Dims()
	return r
}

// NumClasses returns the number of columns of the weight matrix.
func (c *Classifier) NumClasses() int {
	if c.w == nil {
		return 0
	}
	_, cols := c.w.Dims()
	return cols
}

// Fit trains the classifier on x (samples x features) with labels y and returns
// the mean loss of every epoch.
//
// Each epoch reshuffles the samples, splits them into batches of cfg.BatchSize
// and applies one SGD step per batch on cross-entropy plus L2 loss. The number
// of classes is max(y)+1 on the first call; later calls must stay within it.
func (c *Classifier) Fit(x mat.Matrix, y []int, cfg TrainConfig) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n, features := x.Dims()
	if n == 0 {
		return nil, errors.Wrap(ErrShape, "no samples")
	}
	if n != len(y) {
		return nil, errors.Wrapf(ErrShape, "X has %d samples but y has %d labels", n, len(y))
	}
	maxLabel := -1
	for i, label := range y {
		if label < 0 {
			return nil, errors.Wrapf(ErrShape, "negative label %d at index %d", label, i)
		}
		if label > maxLabel {
			maxLabel = label
		}
	}
	if c.w == nil {
		c.w = c.initWeights(features, maxLabel+1)
	} else if err := c.checkWarmStart(features, maxLabel); err != nil {
		return nil, err
	}

	opt := &SGD{LearningRate: cfg.LearningRate}
	history := make([]float64, 0, cfg.Epochs)
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		loss, err := c.runEpoch(x, y, cfg, opt)
		if err != nil {
			return history, errors.WithMessagef(err, "epoch %d", epoch)
		}
		history = append(history, loss)
		klog.V(1).Infof("epoch %d, loss: %f", epoch, loss)
		if cfg.OnEpoch != nil {
			cfg.OnEpoch(epoch, loss)
		}
	}
	return history, nil
}

func (c *Classifier) initWeights(features, classes int) *mat.Dense {
	klog.V(2).Infof("initializing %dx%d weights with scale %g", features, classes, c.initScale)
	data := make([]float64, features*classes)
	for i := range data {
		data[i] = c.initScale * c.rng.NormFloat64()
	}
	return mat.NewDense(features, classes, data)
}

func (c *Classifier) checkWarmStart(features, maxLabel int) error {
	rows, classes := c.w.Dims()
	if features != rows {
		return errors.Wrapf(ErrShape, "X has %d features but weights were trained on %d", features, rows)
	}
	if maxLabel >= classes {
		return errors.Wrapf(ErrShape, "label %d out of range for %d trained classes", maxLabel, classes)
	}
	return nil
}

func (c *Classifier) runEpoch(x mat.Matrix, y []int, cfg TrainConfig, opt Optimizer) (float64, error) {
	batches := Batches(c.rng.Perm(len(y)), cfg.BatchSize)
	losses := make([]float64, 0, len(batches))
	for _, idx := range batches {
		loss, err := trainStep(c.w, dataset.Rows(x, idx), dataset.Labels(y, idx), cfg.Reg, opt)
		if err != nil {
			return 0, err
		}
		losses = append(losses, loss)
	}
	return stat.Mean(losses, nil), nil
}

// trainStep runs one batch: it computes the data and regularization gradients
// against the current w, then lets opt update w before the next batch sees it.
func trainStep(w *mat.Dense, x mat.Matrix, y []int, reg float64, opt Optimizer) (float64, error) {
	ceLoss, grad, err := LinearSoftmax(x, w, y)
	if err != nil {
		return 0, err
	}
	regLoss, regGrad := L2Regularization(w, reg)
	grad.Add(grad, regGrad)
	if err := opt.Apply(w, grad); err != nil {
		return 0, err
	}
	return ceLoss + regLoss, nil
}

// Scores returns X·W.
func (c *Classifier) Scores(x mat.Matrix) (*mat.Dense, error) {
	if c.w == nil {
		return nil, ErrNotFitted
	}
	_, features := x.Dims()
	rows, _ := c.w.Dims()
	if features != rows {
		return nil, errors.Wrapf(ErrShape, "X has %d features but weights have %d rows", features, rows)
	}
	var scores mat.Dense
	scores.Mul(x, c.w)
	return &scores, nil
}

// Predict returns the highest scoring class of every row of x. Ties go to the
// lowest class index.
func (c *Classifier) Predict(x mat.Matrix) ([]int, error) {
	scores, err := c.Scores(x)
	if err != nil {
		return nil, err
	}
	rows, _ := scores.Dims()
	pred := make([]int, rows)
	for i := range pred {
		pred[i] = floats.MaxIdx(scores.RawRowView(i))
	}
	return pred, nil
}

// PredictProba returns the softmax class probabilities of every row of x.
func (c *Classifier) PredictProba(x mat.Matrix) (*mat.Dense, error) {
	scores, err := c.Scores(x)
	if err != nil {
		return nil, err
	}
	return Softmax(scores), nil
}
