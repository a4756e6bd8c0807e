package datasets

import (
	"math"
	"testing"
)

func TestNormalizeNoneIsIdentity(t *testing.T) {
	src := NewImages(2, 2, 2, 3)
	for i := range src.Data {
		src.Data[i] = float32(i)
	}
	out, err := NormalizeImages(src, NormalizeNone)
	if err != nil {
		t.Fatalf("NormalizeImages failed: %v", err)
	}
	if &out.Data[0] != &src.Data[0] {
		t.Fatalf("none mode should return the input unchanged")
	}
}

func TestNormalizeDivide255IsExactAtBounds(t *testing.T) {
	src := NewImages(1, 1, 2, 1)
	src.Data[0] = 0
	src.Data[1] = 255
	out, err := NormalizeImages(src, NormalizeDivide255)
	if err != nil {
		t.Fatalf("NormalizeImages failed: %v", err)
	}
	if out.Data[0] != 0.0 {
		t.Fatalf("0/255 = %v, want exactly 0", out.Data[0])
	}
	if out.Data[1] != 1.0 {
		t.Fatalf("255/255 = %v, want exactly 1", out.Data[1])
	}
	if src.Data[1] != 255 {
		t.Fatalf("input mutated")
	}
}

func TestNormalizeDivide256(t *testing.T) {
	src := NewImages(1, 1, 2, 1)
	src.Data[0] = 128
	src.Data[1] = 256
	out, err := NormalizeImages(src, NormalizeDivide256)
	if err != nil {
		t.Fatalf("NormalizeImages failed: %v", err)
	}
	if out.Data[0] != 0.5 || out.Data[1] != 1.0 {
		t.Fatalf("divide_256 gave %v, %v, want 0.5, 1", out.Data[0], out.Data[1])
	}
}

func TestNormalizeByChannelsStandardizes(t *testing.T) {
	const h, w, c = 4, 4, 3
	src := NewImages(2, h, w, c)
	for i := range src.Data {
		// Arbitrary but non-constant pixel pattern, distinct per channel.
		src.Data[i] = float32((i*37)%251) + float32(i%c)*100
	}
	out, err := NormalizeImages(src, NormalizeByChannels)
	if err != nil {
		t.Fatalf("NormalizeImages failed: %v", err)
	}

	for n := 0; n < 2; n++ {
		img := out.Image(n)
		for ch := 0; ch < c; ch++ {
			var sum, sumSq float64
			for p := 0; p < h*w; p++ {
				v := float64(img[p*c+ch])
				sum += v
				sumSq += v * v
			}
			count := float64(h * w)
			mean := sum / count
			std := math.Sqrt(sumSq/count - mean*mean)
			if math.Abs(mean) > 1e-5 {
				t.Fatalf("image %d channel %d mean = %v, want 0", n, ch, mean)
			}
			if math.Abs(std-1) > 1e-5 {
				t.Fatalf("image %d channel %d std = %v, want 1", n, ch, std)
			}
		}
	}
}

func TestNormalizeByChannelsZeroVariance(t *testing.T) {
	// A constant channel has zero standard deviation; the divide-by-zero is
	// propagated as non-finite values, not special-cased.
	src := NewImages(1, 2, 2, 1)
	for i := range src.Data {
		src.Data[i] = 42
	}
	out, err := NormalizeImages(src, NormalizeByChannels)
	if err != nil {
		t.Fatalf("NormalizeImages failed: %v", err)
	}
	for i, v := range out.Data {
		f := float64(v)
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			t.Fatalf("pixel %d = %v, expected a non-finite result for zero variance", i, v)
		}
	}
}

func TestNormalizeUnknownMode(t *testing.T) {
	if _, err := NormalizeImages(NewImages(1, 1, 1, 1), "sqrt"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}
