// Package cifar downloads and decodes the CIFAR-10 and CIFAR-100 binary
// archives (https://www.cs.toronto.edu/~kriz/cifar.html) into the corpus
// types served by the datasets package.
package cifar

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/JesusPlz/vision-networks/datasets"
)

// Width, Height and Depth are the image dimensions, the same for CIFAR-10
// and CIFAR-100.
const (
	Width  = 32
	Height = 32
	Depth  = 3
)

const (
	// NumTrainExamples and NumTestExamples are the official partition sizes,
	// identical for both sources.
	NumTrainExamples = 50000
	NumTestExamples  = 10000

	imageBytes = Width * Height * Depth
)

// Source selects CIFAR-10 or CIFAR-100.
type Source int

const (
	C10 Source = iota
	C100
)

func (s Source) String() string {
	if s == C100 {
		return "cifar-100"
	}
	return "cifar-10"
}

// NumClasses of the source: 10, or 100 fine classes.
func (s Source) NumClasses() int {
	if s == C100 {
		return 100
	}
	return 10
}

func (s Source) url() string {
	if s == C100 {
		return "https://www.cs.toronto.edu/~kriz/cifar-100-binary.tar.gz"
	}
	return "https://www.cs.toronto.edu/~kriz/cifar-10-binary.tar.gz"
}

func (s Source) checksum() string {
	if s == C100 {
		return "58a81ae192c23a4be8b1804d68e518ed807d710a4eb253b1f2a199162a40d8ec"
	}
	return "c4a38c50a1bc5f3a1c5537f2155ab9d68f9f25eb1ed8d9ddda3db29a59bca1dd"
}

func (s Source) subDir() string {
	if s == C100 {
		return "cifar-100-binary"
	}
	return "cifar-10-batches-bin"
}

// labelBytes per record: CIFAR-10 stores one label byte, CIFAR-100 a coarse
// and a fine label byte.
func (s Source) labelBytes() int {
	if s == C100 {
		return 2
	}
	return 1
}

func (s Source) trainFiles() []string {
	if s == C100 {
		return []string{"train.bin"}
	}
	return []string{
		"data_batch_1.bin", "data_batch_2.bin", "data_batch_3.bin",
		"data_batch_4.bin", "data_batch_5.bin",
	}
}

func (s Source) testFiles() []string {
	if s == C100 {
		return []string{"test.bin"}
	}
	return []string{"test_batch.bin"}
}

// Corpus is one decoded file group: raw 0..255 pixel values in NHWC order
// with scalar class-index labels.
type Corpus struct {
	Images datasets.Images
	Labels datasets.Labels
}

// Load decodes the train and test file groups of a previously downloaded
// source under baseDir. For CIFAR-100 the fine label is kept and the coarse
// label discarded.
func Load(source Source, baseDir string) (train, test Corpus, err error) {
	train, err = readFiles(source, baseDir, source.trainFiles())
	if err != nil {
		return Corpus{}, Corpus{}, errors.WithMessagef(err, "loading %s train files", source)
	}
	test, err = readFiles(source, baseDir, source.testFiles())
	if err != nil {
		return Corpus{}, Corpus{}, errors.WithMessagef(err, "loading %s test files", source)
	}
	return train, test, nil
}

// readFiles decodes every record of the given files, in order, into one
// corpus. Records are read until EOF, so the caller decides (via file choice)
// how many examples it gets.
func readFiles(source Source, baseDir string, names []string) (Corpus, error) {
	var images []float32
	var labels []float32
	record := make([]byte, source.labelBytes()+imageBytes)
	for _, name := range names {
		dataFile := filepath.Join(baseDir, source.subDir(), name)
		f, err := os.Open(dataFile)
		if err != nil {
			return Corpus{}, errors.Wrapf(err, "opening data file %q", dataFile)
		}
		for recordIdx := 0; ; recordIdx++ {
			n, err := io.ReadFull(f, record)
			if err == io.EOF {
				break
			}
			if err != nil {
				_ = f.Close()
				return Corpus{}, errors.Wrapf(err, "reading record %d of %q (%d bytes read)", recordIdx, dataFile, n)
			}
			// The fine label is the last label byte for both schemas.
			labels = append(labels, float32(record[source.labelBytes()-1]))
			images = appendImage(images, record[source.labelBytes():])
		}
		if err := f.Close(); err != nil {
			return Corpus{}, errors.Wrapf(err, "closing %q", dataFile)
		}
	}
	n := len(labels)
	return Corpus{
		Images: datasets.Images{Data: images, N: n, Height: Height, Width: Width, Channels: Depth},
		Labels: datasets.Labels{Data: labels, N: n, Dim: 1},
	}, nil
}

// appendImage converts one record's pixel bytes from the archive's
// channel-major planes (1024 red, 1024 green, 1024 blue bytes, row-major
// within each plane) into NHWC order.
func appendImage(dst []float32, pixels []byte) []float32 {
	for h := 0; h < Height; h++ {
		for w := 0; w < Width; w++ {
			for d := 0; d < Depth; d++ {
				dst = append(dst, float32(pixels[d*(Height*Width)+h*Width+w]))
			}
		}
	}
	return dst
}

// NewProvider downloads the source if missing, decodes it, and builds the
// train/validation/test epoch datasets according to cfg. A zero
// cfg.NClasses is filled in from the source.
func NewProvider(baseDir string, source Source, cfg datasets.Config) (*datasets.Provider, error) {
	if cfg.NClasses == 0 {
		cfg.NClasses = source.NumClasses()
	}
	if cfg.NClasses != source.NumClasses() {
		return nil, errors.Errorf("config has %d classes but %s has %d", cfg.NClasses, source, source.NumClasses())
	}
	if err := Download(source, baseDir); err != nil {
		return nil, err
	}
	train, test, err := Load(source, baseDir)
	if err != nil {
		return nil, err
	}
	return datasets.NewProvider(train.Images, train.Labels, test.Images, test.Labels, cfg)
}
