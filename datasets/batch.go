package datasets

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// defaultYieldBatchSize is used by Yield when BatchSize was left zero.
const defaultYieldBatchSize = 32

// Tensor converts the images into a gomlx tensor shaped
// [N, Height, Width, Channels].
func (im Images) Tensor() *tensors.Tensor {
	return tensors.FromFlatDataAndDimensions(im.Data, im.N, im.Height, im.Width, im.Channels)
}

// Tensor converts the labels into a gomlx tensor shaped [N, Dim].
func (lb Labels) Tensor() *tensors.Tensor {
	return tensors.FromFlatDataAndDimensions(lb.Data, lb.N, lb.Dim)
}

// Name returns the name of the dataset's split ("train", "validation",
// "test").
func (d *EpochDataset) Name() string {
	return d.name
}

// Yield returns the next batch of data for the gomlx Dataset interface.
// Batch size is determined by the BatchSize field. The dataset rolls over
// epochs internally, so Yield never reports end-of-data; bound the number of
// steps in the training loop instead, e.g. from NumExamples.
func (d *EpochDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	batchSize := d.BatchSize
	if batchSize <= 0 {
		batchSize = defaultYieldBatchSize
	}
	images, lbs, err := d.NextBatch(batchSize)
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{images.Tensor()}, []*tensors.Tensor{lbs.Tensor()}, nil
}

// Reset starts a fresh epoch, for the gomlx Dataset interface.
func (d *EpochDataset) Reset() {
	d.startNewEpoch()
}
