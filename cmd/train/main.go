// Command train runs the full pipeline: download and decode a CIFAR corpus,
// build the train/validation/test epoch datasets, train the MLP classifier
// on shuffled, augmented, normalized batches, and report accuracy.
package main

import (
	"flag"
	"log"

	"github.com/JesusPlz/vision-networks/cifar"
	"github.com/JesusPlz/vision-networks/classifier"
	"github.com/JesusPlz/vision-networks/datasets"
)

var (
	sourceFlag     = flag.String("source", "cifar10", "dataset to train on: cifar10 or cifar100")
	dataDirFlag    = flag.String("data-dir", "data", "directory for downloaded archives")
	epochsFlag     = flag.Int("epochs", 10, "training epochs")
	batchSizeFlag  = flag.Int("batch-size", 64, "mini-batch size")
	lrFlag         = flag.Float64("learning-rate", 0.05, "SGD learning rate")
	hiddenFlag     = flag.Int("hidden", 128, "hidden layer size")
	validationFlag = flag.Float64("validation-split", 0.1, "fraction of the training corpus held out for validation")
	augmentFlag    = flag.Bool("augment", true, "augment training batches (pad + crop + mirror)")
	seedFlag       = flag.Int64("seed", 0, "RNG seed (0 for time-based)")
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

	provider, err := cifar.NewProvider(*dataDirFlag, source, datasets.Config{
		ValidationSet:   *validationFlag > 0,
		ValidationSplit: *validationFlag,
		Shuffle:         datasets.ShuffleEveryEpoch,
		Normalization:   datasets.NormalizeDivide255,
		Augmentation:    *augmentFlag,
		Seed:            *seedFlag,
	})
	if err != nil {
		log.Fatalf("building %s provider: %v", source, err)
	}
	log.Printf("%s: train=%d validation=%d test=%d", source,
		provider.Train.NumExamples(), numExamples(provider.Validation), provider.Test.NumExamples())

	inputDim := cifar.Height * cifar.Width * cifar.Depth
	model, err := classifier.NewModel(inputDim, source.NumClasses(), classifier.Config{
		HiddenSizes:  []int{*hiddenFlag},
		LearningRate: *lrFlag,
		Epochs:       1, // epochs are driven here, to log progress in between
		BatchSize:    *batchSizeFlag,
		Seed:         *seedFlag,
	})
	if err != nil {
		log.Fatalf("building model: %v", err)
	}

	for epoch := 1; epoch <= *epochsFlag; epoch++ {
		if err := model.Train(provider.Train); err != nil {
			log.Fatalf("epoch %d: %v", epoch, err)
		}
		if provider.Validation != nil {
			accuracy, err := evaluate(model, provider.Validation, *batchSizeFlag)
			if err != nil {
				log.Fatalf("validating epoch %d: %v", epoch, err)
			}
			log.Printf("epoch %d/%d: validation accuracy %.4f", epoch, *epochsFlag, accuracy)
		} else {
			log.Printf("epoch %d/%d done", epoch, *epochsFlag)
		}
	}

	accuracy, err := evaluate(model, provider.Test, *batchSizeFlag)
	if err != nil {
		log.Fatalf("evaluating test set: %v", err)
	}
	log.Printf("test accuracy: %.4f", accuracy)
}

func numExamples(ds *datasets.EpochDataset) int {
	if ds == nil {
		return 0
	}
	return ds.NumExamples()
}

// evaluate measures accuracy over one epoch's worth of batches.
func evaluate(model *classifier.Model, ds *datasets.EpochDataset, batchSize int) (float64, error) {
	if batchSize > ds.NumExamples() {
		batchSize = ds.NumExamples()
	}
	steps := ds.NumExamples() / batchSize
	var total float64
	for s := 0; s < steps; s++ {
		images, labels, err := ds.NextBatch(batchSize)
		if err != nil {
			return 0, err
		}
		accuracy, err := model.Evaluate(images, labels)
		if err != nil {
			return 0, err
		}
		total += accuracy
	}
	return total / float64(steps), nil
}
