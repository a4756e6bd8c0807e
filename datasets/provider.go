package datasets

import "fmt"

// Config describes how a Provider builds its train/validation/test splits.
// One flat struct covers what used to be a hierarchy of dataset variants:
// the class count, the augmentation toggle and the file layout are the only
// things that varied between them.
type Config struct {
	// NClasses is the number of classes of the dataset variant (10 or 100
	// for CIFAR). Required.
	NClasses int

	// ValidationSet requests a validation dataset. Without a
	// ValidationSplit, validation aliases the test dataset.
	ValidationSet bool

	// ValidationSplit, when > 0, carves the trailing fraction of the
	// decoded, pre-shuffle training corpus out as the validation split.
	// Effective only together with ValidationSet.
	ValidationSplit float64

	// Shuffle mode applied to the train and validation splits. See the
	// Shuffle* constants.
	Shuffle string

	// Normalization mode applied to every split. See the Normalize*
	// constants.
	Normalization string

	// OneHot converts class-index labels to one-hot vectors of length
	// NClasses before any dataset sees them.
	OneHot bool

	// Augmentation enables per-epoch augmentation on the train and
	// validation splits. The test split is always built with augmentation
	// off, for test-time determinism.
	Augmentation bool

	// Seed for deterministic shuffling and augmentation. Zero means
	// time-based. Splits derive distinct sub-seeds from it.
	Seed int64
}

// Provider holds the three epoch datasets of one corpus.
//
// When Validation was requested without a split fraction, Validation and
// Test are the same *EpochDataset instance, sharing storage and batch
// cursor. That is fine for the intended use, a single training loop reading
// both, and is why datasets must not be driven concurrently.
type Provider struct {
	Train      *EpochDataset
	Validation *EpochDataset
	Test       *EpochDataset

	nClasses int
}

// NewProvider builds the epoch datasets for a decoded corpus, already
// separated into its train and test file groups.
func NewProvider(trainImages Images, trainLabels Labels, testImages Images, testLabels Labels, cfg Config) (*Provider, error) {
	if cfg.NClasses <= 0 {
		return nil, fmt.Errorf("config requires a positive NClasses, got %d", cfg.NClasses)
	}
	if cfg.ValidationSplit < 0 || cfg.ValidationSplit >= 1 {
		return nil, fmt.Errorf("validation split %v outside [0, 1)", cfg.ValidationSplit)
	}

	// Label encoding is decided once, at this boundary.
	if cfg.OneHot {
		var err error
		trainLabels, err = LabelsToOneHot(trainLabels, cfg.NClasses)
		if err != nil {
			return nil, fmt.Errorf("encoding train labels: %w", err)
		}
		testLabels, err = LabelsToOneHot(testLabels, cfg.NClasses)
		if err != nil {
			return nil, fmt.Errorf("encoding test labels: %w", err)
		}
	}

	epochCfg := EpochConfig{
		NClasses:      cfg.NClasses,
		Shuffle:       cfg.Shuffle,
		Normalization: cfg.Normalization,
		Augmentation:  cfg.Augmentation,
		Seed:          cfg.Seed,
	}

	p := &Provider{nClasses: cfg.NClasses}
	var err error
	if cfg.ValidationSet && cfg.ValidationSplit > 0 {
		// The carve-out happens on the corpus as decoded, before any
		// shuffling, so the two splits are disjoint and reproducible.
		splitIdx := int(float64(trainImages.N) * (1 - cfg.ValidationSplit))
		p.Train, err = NewEpochDataset(
			trainImages.Slice(0, splitIdx), trainLabels.Slice(0, splitIdx), epochCfg)
		if err != nil {
			return nil, fmt.Errorf("building train dataset: %w", err)
		}
		p.Train.name = "train"
		validationCfg := epochCfg
		validationCfg.Seed = subSeed(cfg.Seed, 1)
		p.Validation, err = NewEpochDataset(
			trainImages.Slice(splitIdx, trainImages.N), trainLabels.Slice(splitIdx, trainLabels.N), validationCfg)
		if err != nil {
			return nil, fmt.Errorf("building validation dataset: %w", err)
		}
		p.Validation.name = "validation"
	} else {
		p.Train, err = NewEpochDataset(trainImages, trainLabels, epochCfg)
		if err != nil {
			return nil, fmt.Errorf("building train dataset: %w", err)
		}
		p.Train.name = "train"
	}

	testCfg := epochCfg
	testCfg.Augmentation = false
	testCfg.Seed = subSeed(cfg.Seed, 2)
	p.Test, err = NewEpochDataset(testImages, testLabels, testCfg)
	if err != nil {
		return nil, fmt.Errorf("building test dataset: %w", err)
	}
	p.Test.name = "test"

	if cfg.ValidationSet && cfg.ValidationSplit == 0 {
		p.Validation = p.Test
	}
	return p, nil
}

// NumClasses of the corpus served by this provider.
func (p *Provider) NumClasses() int {
	return p.nClasses
}

// subSeed derives a distinct deterministic seed per split. A zero base seed
// stays zero, keeping the time-based default.
func subSeed(seed int64, offset int64) int64 {
	if seed == 0 {
		return 0
	}
	return seed + offset
}
