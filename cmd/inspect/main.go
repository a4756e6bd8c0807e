// Command inspect downloads a CIFAR corpus and reports on it: per-channel
// pixel statistics, class balance, a class-distribution bar chart, per-channel
// pixel histograms, and a handful of sample images exported as PNGs.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/JesusPlz/vision-networks/cifar"
	"github.com/JesusPlz/vision-networks/datasets"
)

var (
	sourceFlag  = flag.String("source", "cifar10", "dataset to inspect: cifar10 or cifar100")
	dataDirFlag = flag.String("data-dir", "data", "directory for downloaded archives")
	outDirFlag  = flag.String("out-dir", "output", "directory for plots and sample images")
	samplesFlag = flag.Int("samples", 8, "number of sample images to export as PNG")
)

func main() {
	flag.Parse()

	source := cifar.C10
	switch *sourceFlag {
	case "cifar10":
	case "cifar100":
		source = cifar.C100
	default:
		log.Fatalf("unknown -source %q (want cifar10 or cifar100)", *sourceFlag)
	}

	if err := cifar.Download(source, *dataDirFlag); err != nil {
		log.Fatalf("downloading %s: %v", source, err)
	}
	train, test, err := cifar.Load(source, *dataDirFlag)
	if err != nil {
		log.Fatalf("loading %s: %v", source, err)
	}
	if err := os.MkdirAll(*outDirFlag, 0o755); err != nil {
		log.Fatalf("creating %s: %v", *outDirFlag, err)
	}

	log.Printf("%s: %d train examples, %d test examples", source, train.Images.N, test.Images.N)
	log.Printf("train pixels: %s", datasets.ComputeChannelStats(train.Images))
	log.Printf("test pixels:  %s", datasets.ComputeChannelStats(test.Images))

	counts := datasets.ClassCounts(train.Labels, source.NumClasses())
	names := source.LabelNames()
	minClass, maxClass := 0, 0
	for c, n := range counts {
		if n < counts[minClass] {
			minClass = c
		}
		if n > counts[maxClass] {
			maxClass = c
		}
	}
	log.Printf("class balance: min %s=%d, max %s=%d", names[minClass], counts[minClass], names[maxClass], counts[maxClass])

	if err := plotClassDistribution(source, counts, filepath.Join(*outDirFlag, "class_distribution.png")); err != nil {
		log.Fatalf("plotting class distribution: %v", err)
	}
	if err := plotChannelHistograms(train.Images, filepath.Join(*outDirFlag, "channel_histograms.png")); err != nil {
		log.Fatalf("plotting channel histograms: %v", err)
	}
	if err := exportSamples(source, train, *samplesFlag, *outDirFlag); err != nil {
		log.Fatalf("exporting samples: %v", err)
	}
	log.Printf("wrote plots and %d samples to %s", *samplesFlag, *outDirFlag)
}

// plotClassDistribution renders a bar chart of examples per class.
func plotClassDistribution(source cifar.Source, counts []int, path string) error {
	values := make(plotter.Values, len(counts))
	for c, n := range counts {
		values[c] = float64(n)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s class distribution", source)
	p.Y.Label.Text = "examples"
	bars, err := plotter.NewBarChart(values, vg.Points(4))
	if err != nil {
		return err
	}
	p.Add(bars)
	if len(counts) <= 10 {
		p.NominalX(source.LabelNames()...)
	} else {
		p.X.Label.Text = "class index"
	}
	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}

// plotChannelHistograms renders one pixel-value histogram per channel,
// sampling the corpus to keep the plotter input small.
func plotChannelHistograms(images datasets.Images, path string) error {
	const maxSamplesPerChannel = 100000
	stride := images.N*images.Height*images.Width/maxSamplesPerChannel + 1

	p := plot.New()
	p.Title.Text = "pixel value distribution per channel"
	p.X.Label.Text = "pixel value"
	for c := 0; c < images.Channels; c++ {
		var values plotter.Values
		for i := c; i < len(images.Data); i += stride * images.Channels {
			values = append(values, float64(images.Data[i]))
		}
		hist, err := plotter.NewHist(values, 32)
		if err != nil {
			return err
		}
		hist.Normalize(1)
		p.Add(hist)
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// exportSamples writes the first n training images as PNG files named after
// their class.
func exportSamples(source cifar.Source, train cifar.Corpus, n int, outDir string) error {
	names := source.LabelNames()
	for i := 0; i < n && i < train.Images.N; i++ {
		class := int(train.Labels.Data[i])
		path := filepath.Join(outDir, fmt.Sprintf("sample_%02d_%s.png", i, names[class]))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := png.Encode(f, cifar.ToImage(train.Images, i)); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
