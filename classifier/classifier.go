// Package classifier provides a small, self-contained MLP image classifier
// trained with mini-batch SGD. It is the training-loop consumer of the
// datasets package: batches come from an epoch dataset's NextBatch, so the
// shuffling/augmentation/normalization pipeline is exercised end to end
// without any external deep-learning dependency.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/JesusPlz/vision-networks/datasets"
)

// Config holds configurable hyperparameters for the MLP model and training.
type Config struct {
	// HiddenSizes is the list of hidden layer sizes. If empty, a single
	// hidden layer of size 64 is used.
	HiddenSizes []int

	// LearningRate used by SGD (default if 0: 0.01).
	LearningRate float64

	// Epochs to train for (default if 0: 10).
	Epochs int

	// BatchSize for mini-batch updates (default if 0: 32).
	BatchSize int

	// Seed controls RNG for weight init. If zero, a time-based seed is used.
	Seed int64
}

// Dataset is the minimal interface this package requires from an epoch
// dataset. This keeps classifier decoupled from the concrete datasets
// package types while allowing callers to pass a *datasets.EpochDataset.
type Dataset interface {
	NumExamples() int
	NextBatch(batchSize int) (datasets.Images, datasets.Labels, error)
}

// Model is a configurable MLP with ReLU hidden layers and a softmax output
// over the class logits.
type Model struct {
	Config Config

	// layerSizes includes input size, hidden sizes, then the class count.
	layerSizes []int

	// weights[l] is a matrix of shape [out][in] for layer l -> l+1.
	weights [][][]float32

	// biases[l] is a vector of length out for layer l -> l+1.
	biases [][]float32

	rng *rand.Rand
}

// NewModel creates a model for flat inputs of inputDim features and nClasses
// output classes, with weights initialized to small random values.
func NewModel(inputDim, nClasses int, cfg Config) (*Model, error) {
	if inputDim <= 0 || nClasses <= 0 {
		return nil, fmt.Errorf("inputDim %d and nClasses %d must be positive", inputDim, nClasses)
	}
	if len(cfg.HiddenSizes) == 0 {
		cfg.HiddenSizes = []int{64}
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.01
	}
	if cfg.Epochs == 0 {
		cfg.Epochs = 10
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 32
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := &Model{
		Config: cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}

	sizes := make([]int, 0, 2+len(cfg.HiddenSizes))
	sizes = append(sizes, inputDim)
	sizes = append(sizes, cfg.HiddenSizes...)
	sizes = append(sizes, nClasses)
	m.layerSizes = sizes

	layers := len(sizes) - 1
	m.weights = make([][][]float32, layers)
	m.biases = make([][]float32, layers)
	for l := 0; l < layers; l++ {
		in, out := sizes[l], sizes[l+1]
		// Xavier/Glorot uniform initialization heuristic.
		limit := float32(math.Sqrt(6.0 / float64(in+out)))
		mat := make([][]float32, out)
		for j := 0; j < out; j++ {
			row := make([]float32, in)
			for i := range row {
				row[i] = (m.rng.Float32()*2.0 - 1.0) * limit
			}
			mat[j] = row
		}
		m.weights[l] = mat
		m.biases[l] = make([]float32, out)
	}
	return m, nil
}

func activationReLU(x []float32) {
	for i := range x {
		if x[i] < 0 {
			x[i] = 0
		}
	}
}

// forwardSingle runs one input through the network, returning the
// pre-activation and activation vectors of every layer (acts[0] is the
// input, the last activation holds the raw logits).
func (m *Model) forwardSingle(input []float32) (preActs, acts [][]float32, err error) {
	if len(input) != m.layerSizes[0] {
		return nil, nil, fmt.Errorf("input has %d features, model expects %d", len(input), m.layerSizes[0])
	}
	layers := len(m.weights)
	acts = make([][]float32, layers+1)
	acts[0] = input
	preActs = make([][]float32, layers)
	for l := 0; l < layers; l++ {
		inVec := acts[l]
		outDim := len(m.biases[l])
		pre := make([]float32, outDim)
		for j := 0; j < outDim; j++ {
			sum := m.biases[l][j]
			row := m.weights[l][j]
			for i, v := range inVec {
				sum += row[i] * v
			}
			pre[j] = sum
		}
		preActs[l] = pre

		act := make([]float32, outDim)
		copy(act, pre)
		if l < layers-1 {
			activationReLU(act)
		}
		acts[l+1] = act
	}
	return preActs, acts, nil
}

// softmax returns the normalized class probabilities for the given logits.
func softmax(logits []float32) []float32 {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	probs := make([]float32, len(logits))
	var sum float32
	for i, v := range logits {
		p := float32(math.Exp(float64(v - maxLogit)))
		probs[i] = p
		sum += p
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// targetClass extracts the class index of example i from labels that are
// either scalar indices (Dim 1) or one-hot vectors.
func targetClass(labels datasets.Labels, i int) int {
	row := labels.Label(i)
	if labels.Dim == 1 {
		return int(row[0])
	}
	best := 0
	for j := 1; j < len(row); j++ {
		if row[j] > row[best] {
			best = j
		}
	}
	return best
}

// Train runs mini-batch SGD with softmax cross-entropy loss over the
// dataset, for Config.Epochs passes of NumExamples()/BatchSize steps each.
// The dataset handles epoch rollover itself.
func (m *Model) Train(ds Dataset) error {
	if ds == nil {
		return errors.New("dataset is nil")
	}
	n := ds.NumExamples()
	if n == 0 {
		return errors.New("dataset has no examples")
	}
	batchSize := m.Config.BatchSize
	if batchSize > n {
		batchSize = n
	}
	stepsPerEpoch := n / batchSize
	lr := float32(m.Config.LearningRate)

	for ep := 0; ep < m.Config.Epochs; ep++ {
		for step := 0; step < stepsPerEpoch; step++ {
			images, labels, err := ds.NextBatch(batchSize)
			if err != nil {
				return fmt.Errorf("fetching batch: %w", err)
			}
			if err := m.trainBatch(images, labels, lr); err != nil {
				return err
			}
		}
	}
	return nil
}

// trainBatch accumulates the gradients of every example and applies one
// averaged SGD update.
func (m *Model) trainBatch(images datasets.Images, labels datasets.Labels, lr float32) error {
	layers := len(m.weights)
	gradW := make([][][]float32, layers)
	gradB := make([][]float32, layers)
	for l := 0; l < layers; l++ {
		outDim := len(m.biases[l])
		inDim := len(m.weights[l][0])
		gradW[l] = make([][]float32, outDim)
		for j := 0; j < outDim; j++ {
			gradW[l][j] = make([]float32, inDim)
		}
		gradB[l] = make([]float32, outDim)
	}

	for ex := 0; ex < images.N; ex++ {
		preActs, acts, err := m.forwardSingle(images.Image(ex))
		if err != nil {
			return err
		}

		// Softmax cross-entropy gradient at the logits: p - onehot(target).
		probs := softmax(acts[len(acts)-1])
		target := targetClass(labels, ex)
		delta := probs
		delta[target] -= 1

		for l := layers - 1; l >= 0; l-- {
			inAct := acts[l]
			for j, dj := range delta {
				gradB[l][j] += dj
				gw := gradW[l][j]
				for i, v := range inAct {
					gw[i] += dj * v
				}
			}
			if l == 0 {
				break
			}
			prevLen := len(m.weights[l][0])
			newDelta := make([]float32, prevLen)
			for i := 0; i < prevLen; i++ {
				var sum float32
				for j, dj := range delta {
					sum += m.weights[l][j][i] * dj
				}
				// ReLU derivative of the previous layer's pre-activation.
				if preActs[l-1][i] > 0 {
					newDelta[i] = sum
				}
			}
			delta = newDelta
		}
	}

	scale := lr / float32(images.N)
	for l := 0; l < layers; l++ {
		for j := range m.biases[l] {
			m.biases[l][j] -= scale * gradB[l][j]
			row := m.weights[l][j]
			for i := range row {
				row[i] -= scale * gradW[l][j][i]
			}
		}
	}
	return nil
}

// Predict returns the most likely class of every image in the batch.
func (m *Model) Predict(images datasets.Images) ([]int, error) {
	out := make([]int, images.N)
	for i := 0; i < images.N; i++ {
		_, acts, err := m.forwardSingle(images.Image(i))
		if err != nil {
			return nil, err
		}
		logits := acts[len(acts)-1]
		best := 0
		for j := 1; j < len(logits); j++ {
			if logits[j] > logits[best] {
				best = j
			}
		}
		out[i] = best
	}
	return out, nil
}

// Evaluate returns the accuracy of the model over an aligned batch of images
// and labels.
func (m *Model) Evaluate(images datasets.Images, labels datasets.Labels) (float64, error) {
	if images.N == 0 {
		return 0, errors.New("empty evaluation batch")
	}
	predictions, err := m.Predict(images)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i, p := range predictions {
		if p == targetClass(labels, i) {
			correct++
		}
	}
	return float64(correct) / float64(images.N), nil
}
