package dataset

import (
	"bufio"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// CIFAR-10 binary record layout: one label byte followed by a 3x32x32 image,
// channel-major.
const (
	ImageSide = 32
	Channels  = 3
	ImageSize = Channels * ImageSide * ImageSide
	LabelSize = 1
	Row       = LabelSize + ImageSize
)

// LoadCIFAR10 reads a CIFAR-10 binary batch file. Images come back as
// float32 tensors of shape (3, 32, 32) with pixels scaled to [0, 1].
func LoadCIFAR10(filePath string) ([]tensor.Tensor, []int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %q", filePath)
	}
	defer file.Close()
	return ReadCIFAR10(bufio.NewReader(file))
}

// ReadCIFAR10 decodes CIFAR-10 records from r until EOF.
func ReadCIFAR10(r io.Reader) ([]tensor.Tensor, []int, error) {
	var (
		images []tensor.Tensor
		labels []int
	)
	row := make([]byte, Row)
	for {
		_, err := io.ReadFull(r, row)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "record %d", len(labels))
		}
		labels = append(labels, int(row[0]))

		pixels := row[LabelSize:]
		norm := make([]float32, ImageSize)
		for i, p := range pixels {
			norm[i] = float32(p) / 255.0
		}
		images = append(images, tensor.New(
			tensor.Of(tensor.Float32),
			tensor.WithShape(Channels, ImageSide, ImageSide),
			tensor.WithBacking(norm)))
	}
	return images, labels, nil
}

// ReadClassNames reads one class name per line (batches.meta.txt), skipping blank lines.
func ReadClassNames(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", filePath)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %q", filePath)
	}
	return names, nil
}

// SaveImage writes a (3, 32, 32) image tensor as a PNG file.
func SaveImage(path string, t tensor.Tensor) error {
	img := image.NewRGBA(image.Rect(0, 0, ImageSide, ImageSide))
	for y := 0; y < ImageSide; y++ {
		for x := 0; x < ImageSide; x++ {
			var rgb [Channels]uint8
			for c := range rgb {
				v, err := t.At(c, y, x)
				if err != nil {
					return errors.Wrapf(err, "pixel (%d, %d, %d)", c, y, x)
				}
				rgb[c] = uint8(v.(float32) * 255.0)
			}
			img.Set(x, y, color.RGBA{rgb[0], rgb[1], rgb[2], 255})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return errors.Wrapf(err, "encode %q", path)
	}
	return file.Close()
}
