package datasets

import "github.com/gomlx/gomlx/pkg/core/tensors"

// This package is the dataset-provider layer for image-classification
// training: it owns an in-memory image/label corpus, partitions it into
// train/validation/test splits, and serves shuffled, normalized, augmented
// mini-batches to a training loop.
//
// The corpus is kept as flat float32 buffers plus shape metadata (see Images
// and Labels). These are trivial to convert into gomlx tensors -- Images and
// Labels carry Tensor() methods -- or to feed to any other consumer of
// contiguous NHWC data.
//
// Layout and intended usage:
//
// EpochDataset
//   - Owns one split's images and labels.
//   - Re-materializes its epoch buffer at every epoch start: optional
//     reshuffle, optional augmentation (pad + random crop + random mirror),
//     optional normalization.
//   - Serves fixed-size sequential batches with automatic epoch rollover.
//
// Provider
//   - Builds the train/validation/test EpochDatasets from a decoded corpus
//     according to a Config, including the validation carve-out policy and
//     one-hot label conversion.
//
// All batching is synchronous and single-threaded: the one training loop
// drives every NextBatch/Yield call. Nothing here locks.
//
// The datasets implement this interface in order to interact with GoMLX
// training loops and batching utilities.
type Dataset interface {
	// NumExamples is the total example count of the split, used by callers
	// to compute epoch boundaries such as steps-per-epoch.
	NumExamples() int

	// NextBatch returns the next batchSize aligned image/label pairs,
	// starting a fresh epoch when the current one is exhausted.
	NextBatch(batchSize int) (Images, Labels, error)

	// To implement gomlx's train.Dataset interface.
	Name() string
	Yield() (any, []*tensors.Tensor, []*tensors.Tensor, error)
	Reset()
}
