package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
	"k8s.io/klog/v2"

	"linsoft/dataset"
	"linsoft/linear"
	"linsoft/metrics"
)

var (
	flagData     = flag.String("data", "", "CIFAR-10 binary batch file; synthetic Gaussian clusters are used when empty")
	flagMeta     = flag.String("meta", "", "class names file (batches.meta.txt)")
	flagBatch    = flag.Int("batch", 100, "mini-batch size")
	flagLR       = flag.Float64("lr", 1e-2, "learning rate")
	flagReg      = flag.Float64("reg", 1e-5, "L2 regularization strength")
	flagEpochs   = flag.Int("epochs", 20, "number of epochs")
	flagSeed     = flag.Int64("seed", 42, "random seed")
	flagClasses  = flag.Int("classes", 3, "number of synthetic classes")
	flagSamples  = flag.Int("samples", 600, "number of synthetic samples")
	flagVal      = flag.Float64("val", 0.2, "fraction of samples held out for validation")
	flagPositive = flag.Int("positive", 0, "class treated as positive for binary metrics")
	flagDump     = flag.String("dump", "", "directory to save misclassified CIFAR-10 validation images to")
	flagDumpMax  = flag.Int("dump_max", 10, "maximum number of images saved with -dump")
)

type data struct {
	x      *mat.Dense
	y      []int
	images []tensor.Tensor
	names  []string
}

func load(rng *rand.Rand) (*data, error) {
	if *flagData == "" {
		x, y := dataset.GaussianClusters(rng, *flagSamples, *flagClasses, 2, 4, 1)
		return &data{x: x, y: y}, nil
	}
	images, labels, err := dataset.LoadCIFAR10(*flagData)
	if err != nil {
		return nil, err
	}
	x, err := dataset.Flatten(images)
	if err != nil {
		return nil, err
	}
	dataset.Standardize(x)
	d := &data{x: dataset.AppendBias(x), y: labels, images: images}
	if *flagMeta != "" {
		if d.names, err = dataset.ReadClassNames(*flagMeta); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *data) className(label int) string {
	if label < len(d.names) {
		return d.names[label]
	}
	return fmt.Sprintf("class%d", label)
}

func progressObserver(epochs int) (linear.EpochFunc, *progressbar.ProgressBar) {
	bar := progressbar.NewOptions(epochs,
		progressbar.OptionSetDescription("Training"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		progressbar.OptionSetWriter(os.Stderr),
	)
	return func(epoch int, loss float64) {
		bar.Describe(fmt.Sprintf("Epoch %d, loss: %f", epoch, loss))
		_ = bar.Add(1)
	}, bar
}

func dumpMisclassified(d *data, val, pred []int) error {
	if err := os.MkdirAll(*flagDump, 0o755); err != nil {
		return errors.Wrapf(err, "create %q", *flagDump)
	}
	saved := 0
	for i, sample := range val {
		if saved >= *flagDumpMax {
			break
		}
		if pred[i] == d.y[sample] {
			continue
		}
		name := fmt.Sprintf("file_%s_as_%s_%d.png", d.className(d.y[sample]), d.className(pred[i]), sample)
		if err := dataset.SaveImage(filepath.Join(*flagDump, name), d.images[sample]); err != nil {
			return err
		}
		saved++
	}
	klog.Infof("saved %d misclassified images to %s", saved, *flagDump)
	return nil
}

func run() error {
	if *flagVal <= 0 || *flagVal >= 1 {
		return errors.Errorf("-val must be in (0, 1), got %g", *flagVal)
	}
	rng := rand.New(rand.NewSource(*flagSeed))
	d, err := load(rng)
	if err != nil {
		return err
	}
	n, features := d.x.Dims()
	klog.Infof("loaded %d samples with %d features", n, features)

	train, val := dataset.Split(rng, n, *flagVal)
	if len(train) == 0 || len(val) == 0 {
		return errors.Errorf("-val=%g leaves %d training and %d validation samples", *flagVal, len(train), len(val))
	}
	trainX, trainY := dataset.Rows(d.x, train), dataset.Labels(d.y, train)
	valX, valY := dataset.Rows(d.x, val), dataset.Labels(d.y, val)

	cfg := linear.DefaultTrainConfig()
	cfg.BatchSize = *flagBatch
	cfg.LearningRate = *flagLR
	cfg.Reg = *flagReg
	cfg.Epochs = *flagEpochs
	var bar *progressbar.ProgressBar
	cfg.OnEpoch, bar = progressObserver(cfg.Epochs)

	clf := linear.NewClassifier(linear.WithSeed(*flagSeed))
	history, err := clf.Fit(trainX, trainY, cfg)
	_ = bar.Finish()
	if err != nil {
		return err
	}
	fmt.Printf("\nFinal training loss: %f\n", history[len(history)-1])

	pred, err := clf.Predict(valX)
	if err != nil {
		return err
	}
	acc, err := metrics.MulticlassAccuracy(pred, valY)
	if err != nil {
		return err
	}
	fmt.Printf("Validation accuracy: %.4f\n", acc)

	p, g := metrics.OneVsRest(pred, valY, *flagPositive)
	b, err := metrics.BinaryClassification(p, g)
	if err != nil {
		klog.Warningf("binary metrics for %s: %v", d.className(*flagPositive), err)
	}
	fmt.Printf("%s vs rest: precision %.4f, recall %.4f, f1 %.4f, accuracy %.4f (tp=%d fp=%d fn=%d tn=%d)\n",
		d.className(*flagPositive), b.Precision, b.Recall, b.F1, b.Accuracy, b.TP, b.FP, b.FN, b.TN)

	if *flagDump != "" && d.images != nil {
		return dumpMisclassified(d, val, pred)
	}
	return nil
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if err := run(); err != nil {
		klog.Exitf("Failed with error: %+v", err)
	}
}
