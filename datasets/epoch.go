package datasets

import (
	"fmt"
	"math/rand"
	"time"
)

// Shuffle modes accepted by EpochConfig.Shuffle and Config.Shuffle.
const (
	// ShuffleNone serves examples in corpus order.
	ShuffleNone = ""
	// ShuffleOncePriorTrain permutes the corpus once at construction time.
	ShuffleOncePriorTrain = "once_prior_train"
	// ShuffleEveryEpoch draws a fresh permutation at every epoch start.
	ShuffleEveryEpoch = "every_epoch"
)

func validShuffle(mode string) bool {
	switch mode {
	case ShuffleNone, ShuffleOncePriorTrain, ShuffleEveryEpoch:
		return true
	}
	return false
}

// EpochConfig configures one EpochDataset.
type EpochConfig struct {
	// NClasses is the number of classes the labels index into.
	NClasses int

	// Shuffle is one of ShuffleNone, ShuffleOncePriorTrain or
	// ShuffleEveryEpoch.
	Shuffle string

	// Normalization is one of NormalizeNone, NormalizeDivide255,
	// NormalizeDivide256 or NormalizeByChannels.
	Normalization string

	// Augmentation enables per-epoch pad/random-crop/random-mirror
	// augmentation of the epoch buffer.
	Augmentation bool

	// Seed for the shuffle/augmentation RNG. If zero, a time-based seed is
	// used.
	Seed int64
}

// EpochDataset owns one corpus split and serves it as fixed-size batches.
//
// At every epoch start the dataset re-materializes its epoch view of the
// corpus: a fresh permutation if ShuffleEveryEpoch is configured, then
// augmentation, then normalization. The view is an immutable snapshot that
// replaces the previous epoch's wholesale; batches returned by NextBatch are
// slices into it.
//
// An EpochDataset must be driven by a single goroutine: the batch cursor and
// the epoch buffer are unsynchronized, and validation datasets may alias the
// test dataset (see NewProvider).
type EpochDataset struct {
	// BatchSize used by Yield. Defaults to 32 if left zero.
	BatchSize int

	// Base corpus. Permuted once at construction under
	// ShuffleOncePriorTrain, untouched afterwards.
	images Images
	labels Labels

	nClasses          int
	shuffleEveryEpoch bool
	normalization     string
	augmentation      bool
	rng               *rand.Rand
	name              string

	// Materialized view served during the current epoch. Immutable until the
	// next epoch start.
	epochImages Images
	epochLabels Labels

	// batchCounter counts batches already served in the current epoch.
	batchCounter int
}

// NewEpochDataset creates a dataset over one split of index-aligned images
// and labels. Alignment (images.N == labels.N, with matching order) is a
// caller-guaranteed precondition, not validated here.
//
// Unrecognized shuffle or normalization modes fail fast, before any epoch is
// materialized.
func NewEpochDataset(images Images, labels Labels, cfg EpochConfig) (*EpochDataset, error) {
	if !validShuffle(cfg.Shuffle) {
		return nil, fmt.Errorf("unknown shuffle mode %q", cfg.Shuffle)
	}
	if !validNormalization(cfg.Normalization) {
		return nil, fmt.Errorf("unknown normalization mode %q", cfg.Normalization)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := &EpochDataset{
		images:            images,
		labels:            labels,
		nClasses:          cfg.NClasses,
		shuffleEveryEpoch: cfg.Shuffle == ShuffleEveryEpoch,
		normalization:     cfg.Normalization,
		augmentation:      cfg.Augmentation,
		rng:               rand.New(rand.NewSource(seed)),
		name:              "epoch dataset",
	}
	if cfg.Shuffle == ShuffleOncePriorTrain {
		perm := d.rng.Perm(images.N)
		d.images = images.permuted(perm)
		d.labels = labels.permuted(perm)
	}
	d.startNewEpoch()
	return d, nil
}

// startNewEpoch resets the batch cursor and rebuilds the epoch view from the
// base corpus.
func (d *EpochDataset) startNewEpoch() {
	d.batchCounter = 0
	images, labels := d.images, d.labels
	if d.shuffleEveryEpoch {
		perm := d.rng.Perm(images.N)
		images = images.permuted(perm)
		labels = labels.permuted(perm)
	}
	if d.augmentation {
		images = AugmentImages(images, augmentPad, d.rng)
	}
	// Mode was validated at construction, the error path is unreachable.
	images, _ = NormalizeImages(images, d.normalization)
	d.epochImages = images
	d.epochLabels = labels
}

// NumExamples returns the total example count of the split (not of the
// current epoch buffer).
func (d *EpochDataset) NumExamples() int {
	return d.labels.N
}

// NumClasses returns the number of classes configured for this split.
func (d *EpochDataset) NumClasses() int {
	return d.nClasses
}

// NextBatch returns the next batchSize image/label pairs of the current
// epoch. When fewer than batchSize examples remain, the leftover partial
// batch is dropped, a new epoch is started and the request is served from
// it, so a valid request always returns exactly batchSize aligned pairs.
//
// batchSize must be in [1, NumExamples()]; larger batches could never be
// satisfied by any epoch and are rejected.
//
// The returned Images and Labels are views into the epoch buffer. They stay
// valid until the epoch ends, which happens at the earliest NextBatch call
// that exhausts it.
func (d *EpochDataset) NextBatch(batchSize int) (Images, Labels, error) {
	if batchSize < 1 || batchSize > d.NumExamples() {
		return Images{}, Labels{}, fmt.Errorf("batch size %d outside [1, %d]", batchSize, d.NumExamples())
	}
	start := d.batchCounter * batchSize
	end := start + batchSize
	if end > d.epochImages.N {
		d.startNewEpoch()
		start, end = 0, batchSize
	}
	d.batchCounter++
	return d.epochImages.Slice(start, end), d.epochLabels.Slice(start, end), nil
}
