package datasets

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Normalization modes accepted by EpochConfig.Normalization and
// Config.Normalization.
const (
	// NormalizeNone leaves pixel values untouched.
	NormalizeNone = ""
	// NormalizeDivide255 divides every pixel by 255, mapping 0..255 to 0..1.
	NormalizeDivide255 = "divide_255"
	// NormalizeDivide256 divides every pixel by 256.
	NormalizeDivide256 = "divide_256"
	// NormalizeByChannels standardizes each channel of each image to zero
	// mean and unit standard deviation (population, not sample).
	NormalizeByChannels = "by_channels"
)

func validNormalization(mode string) bool {
	switch mode {
	case NormalizeNone, NormalizeDivide255, NormalizeDivide256, NormalizeByChannels:
		return true
	}
	return false
}

// NormalizeImages applies the given normalization mode to src and returns the
// result. For NormalizeNone src is returned as-is; every other mode returns a
// new buffer and leaves src untouched.
//
// NormalizeByChannels on a constant (zero-variance) channel divides by zero
// and produces non-finite values; that is an input-quality precondition
// violation, deliberately not special-cased here.
func NormalizeImages(src Images, mode string) (Images, error) {
	switch mode {
	case NormalizeNone:
		return src, nil
	case NormalizeDivide255:
		return divideImages(src, 255), nil
	case NormalizeDivide256:
		return divideImages(src, 256), nil
	case NormalizeByChannels:
		return standardizeByChannels(src), nil
	}
	return Images{}, fmt.Errorf("unknown normalization mode %q", mode)
}

func divideImages(src Images, denom float32) Images {
	out := NewImages(src.N, src.Height, src.Width, src.Channels)
	for i, v := range src.Data {
		out.Data[i] = v / denom
	}
	return out
}

// standardizeByChannels subtracts the mean and divides by the population
// standard deviation of each channel of each image independently.
func standardizeByChannels(src Images) Images {
	out := NewImages(src.N, src.Height, src.Width, src.Channels)
	perChannel := src.Height * src.Width
	scratch := make([]float64, perChannel)
	for i := 0; i < src.N; i++ {
		img := src.Image(i)
		dst := out.Image(i)
		for c := 0; c < src.Channels; c++ {
			for p := 0; p < perChannel; p++ {
				scratch[p] = float64(img[p*src.Channels+c])
			}
			mean := stat.Mean(scratch, nil)
			std := stat.PopStdDev(scratch, nil)
			for p := 0; p < perChannel; p++ {
				dst[p*src.Channels+c] = float32((scratch[p] - mean) / std)
			}
		}
	}
	return out
}
