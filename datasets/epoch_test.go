package datasets

import "testing"

// makeCorpus builds a tiny aligned corpus: every pixel of image i holds the
// value i, and label i holds the class i % nClasses.
func makeCorpus(t *testing.T, n, height, width, channels, nClasses int) (Images, Labels) {
	t.Helper()
	images := NewImages(n, height, width, channels)
	labels := NewLabels(n, 1)
	for i := 0; i < n; i++ {
		img := images.Image(i)
		for p := range img {
			img[p] = float32(i)
		}
		labels.Data[i] = float32(i % nClasses)
	}
	return images, labels
}

// imageValue returns the constant fill value of image i in a batch built by
// makeCorpus.
func imageValue(t *testing.T, batch Images, i int) int {
	t.Helper()
	img := batch.Image(i)
	v := img[0]
	for _, p := range img {
		if p != v {
			t.Fatalf("image %d is not constant-filled: %v vs %v", i, p, v)
		}
	}
	return int(v)
}

func TestNextBatchPartitionsEpoch(t *testing.T) {
	images, labels := makeCorpus(t, 20, 2, 2, 3, 10)
	ds, err := NewEpochDataset(images, labels, EpochConfig{NClasses: 10})
	if err != nil {
		t.Fatalf("NewEpochDataset failed: %v", err)
	}
	if ds.NumExamples() != 20 {
		t.Fatalf("expected 20 examples, got %d", ds.NumExamples())
	}

	// Four sequential batches of 5 partition the epoch with no repeats.
	seen := make(map[int]bool)
	for b := 0; b < 4; b++ {
		imgs, lbs, err := ds.NextBatch(5)
		if err != nil {
			t.Fatalf("NextBatch(5) #%d failed: %v", b, err)
		}
		if imgs.N != 5 || lbs.N != 5 {
			t.Fatalf("batch #%d has sizes %d/%d, want 5/5", b, imgs.N, lbs.N)
		}
		for i := 0; i < 5; i++ {
			v := imageValue(t, imgs, i)
			if v != b*5+i {
				t.Fatalf("batch #%d example %d is image %d, want %d", b, i, v, b*5+i)
			}
			if seen[v] {
				t.Fatalf("image %d served twice in one epoch", v)
			}
			seen[v] = true
		}
	}
	if len(seen) != 20 {
		t.Fatalf("epoch served %d distinct images, want 20", len(seen))
	}

	// The fifth call wraps into a fresh epoch and returns [0:5) again.
	imgs, _, err := ds.NextBatch(5)
	if err != nil {
		t.Fatalf("NextBatch(5) after epoch end failed: %v", err)
	}
	if v := imageValue(t, imgs, 0); v != 0 {
		t.Fatalf("first image after rollover is %d, want 0", v)
	}
}

func TestNextBatchDropsPartialBatch(t *testing.T) {
	images, labels := makeCorpus(t, 10, 2, 2, 1, 10)
	ds, err := NewEpochDataset(images, labels, EpochConfig{NClasses: 10})
	if err != nil {
		t.Fatalf("NewEpochDataset failed: %v", err)
	}

	// 10 examples, batches of 4: two full batches, then the leftover 2
	// examples are dropped and the next batch comes from a new epoch.
	wantFirst := []int{0, 4, 0}
	for b, want := range wantFirst {
		imgs, _, err := ds.NextBatch(4)
		if err != nil {
			t.Fatalf("NextBatch(4) #%d failed: %v", b, err)
		}
		if imgs.N != 4 {
			t.Fatalf("batch #%d has %d examples, want 4 (no short batches)", b, imgs.N)
		}
		if v := imageValue(t, imgs, 0); v != want {
			t.Fatalf("batch #%d starts at image %d, want %d", b, v, want)
		}
	}
}

func TestNextBatchRejectsInvalidSizes(t *testing.T) {
	images, labels := makeCorpus(t, 8, 2, 2, 1, 8)
	ds, err := NewEpochDataset(images, labels, EpochConfig{NClasses: 8})
	if err != nil {
		t.Fatalf("NewEpochDataset failed: %v", err)
	}
	if _, _, err := ds.NextBatch(0); err == nil {
		t.Fatalf("NextBatch(0) should fail")
	}
	if _, _, err := ds.NextBatch(9); err == nil {
		t.Fatalf("NextBatch larger than the split should fail instead of looping")
	}
}

func TestShufflePreservesAlignment(t *testing.T) {
	// Image i is filled with value i and label i is class i, so any
	// misalignment between the shuffled buffers is directly visible.
	images, labels := makeCorpus(t, 16, 2, 2, 1, 16)
	ds, err := NewEpochDataset(images, labels, EpochConfig{
		NClasses: 16,
		Shuffle:  ShuffleEveryEpoch,
		Seed:     7,
	})
	if err != nil {
		t.Fatalf("NewEpochDataset failed: %v", err)
	}

	for epoch := 0; epoch < 3; epoch++ {
		seen := make(map[int]bool)
		for b := 0; b < 4; b++ {
			imgs, lbs, err := ds.NextBatch(4)
			if err != nil {
				t.Fatalf("NextBatch failed: %v", err)
			}
			for i := 0; i < 4; i++ {
				img := imageValue(t, imgs, i)
				label := int(lbs.Data[i])
				if img != label {
					t.Fatalf("epoch %d: image %d paired with label %d", epoch, img, label)
				}
				seen[img] = true
			}
		}
		if len(seen) != 16 {
			t.Fatalf("epoch %d served %d distinct images, want 16", epoch, len(seen))
		}
	}
}

func TestShuffleEveryEpochReshuffles(t *testing.T) {
	images, labels := makeCorpus(t, 32, 2, 2, 1, 32)
	ds, err := NewEpochDataset(images, labels, EpochConfig{
		NClasses: 32,
		Shuffle:  ShuffleEveryEpoch,
		Seed:     3,
	})
	if err != nil {
		t.Fatalf("NewEpochDataset failed: %v", err)
	}

	order := func() []int {
		var got []int
		for b := 0; b < 4; b++ {
			imgs, _, err := ds.NextBatch(8)
			if err != nil {
				t.Fatalf("NextBatch failed: %v", err)
			}
			for i := 0; i < 8; i++ {
				got = append(got, imageValue(t, imgs, i))
			}
		}
		return got
	}

	first := order()
	second := order()
	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("two epochs produced the identical order %v, expected a fresh permutation", first)
	}
}

func TestShuffleOnceIsStableAcrossEpochs(t *testing.T) {
	images, labels := makeCorpus(t, 12, 2, 2, 1, 12)
	ds, err := NewEpochDataset(images, labels, EpochConfig{
		NClasses: 12,
		Shuffle:  ShuffleOncePriorTrain,
		Seed:     11,
	})
	if err != nil {
		t.Fatalf("NewEpochDataset failed: %v", err)
	}

	epochOrder := func() []int {
		var got []int
		for b := 0; b < 3; b++ {
			imgs, _, err := ds.NextBatch(4)
			if err != nil {
				t.Fatalf("NextBatch failed: %v", err)
			}
			for i := 0; i < 4; i++ {
				got = append(got, imageValue(t, imgs, i))
			}
		}
		return got
	}

	first := epochOrder()
	second := epochOrder()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("once-prior-train order changed between epochs: %v vs %v", first, second)
		}
	}

	inOrder := true
	for i, v := range first {
		if v != i {
			inOrder = false
			break
		}
	}
	if inOrder {
		t.Fatalf("corpus was not permuted at construction (seed 11 produced identity?)")
	}
}

func TestConstructionRejectsUnknownModes(t *testing.T) {
	images, labels := makeCorpus(t, 4, 2, 2, 1, 4)
	if _, err := NewEpochDataset(images, labels, EpochConfig{NClasses: 4, Shuffle: "sometimes"}); err == nil {
		t.Fatalf("unknown shuffle mode should fail at construction")
	}
	if _, err := NewEpochDataset(images, labels, EpochConfig{NClasses: 4, Normalization: "divide_42"}); err == nil {
		t.Fatalf("unknown normalization mode should fail at construction")
	}
}

func TestAugmentationLeavesBaseCorpusUntouched(t *testing.T) {
	images, labels := makeCorpus(t, 6, 4, 4, 3, 6)
	base := make([]float32, len(images.Data))
	copy(base, images.Data)

	ds, err := NewEpochDataset(images, labels, EpochConfig{
		NClasses:     6,
		Augmentation: true,
		Seed:         5,
	})
	if err != nil {
		t.Fatalf("NewEpochDataset failed: %v", err)
	}
	imgs, _, err := ds.NextBatch(6)
	if err != nil {
		t.Fatalf("NextBatch failed: %v", err)
	}
	if imgs.N != 6 || imgs.Height != 4 || imgs.Width != 4 || imgs.Channels != 3 {
		t.Fatalf("augmented batch has shape %v", imgs)
	}
	for i, v := range images.Data {
		if v != base[i] {
			t.Fatalf("base corpus mutated at %d: %v -> %v", i, base[i], v)
		}
	}
}
