package datasets

import "math/rand"

// augmentPad is the fixed padding applied when an EpochDataset has
// augmentation enabled.
const augmentPad = 4

// AugmentImages returns a new image buffer where each image of src has been
// zero-padded by pad pixels on every spatial border, cropped back to its
// original size at a random offset, and mirrored horizontally with 50%
// probability. Crop offsets and the mirror decision are drawn independently
// per image. src is never mutated.
//
// With pad == 0 the crop collapses to a no-op at offset 0, so the only
// remaining effect is the random mirror.
func AugmentImages(src Images, pad int, rng *rand.Rand) Images {
	out := NewImages(src.N, src.Height, src.Width, src.Channels)
	for i := 0; i < src.N; i++ {
		var offH, offW int
		if pad > 0 {
			offH = rng.Intn(2 * pad)
			offW = rng.Intn(2 * pad)
		}
		flip := rng.Intn(2) == 1
		augmentImage(out.Image(i), src.Image(i), src.Height, src.Width, src.Channels, pad, offH, offW, flip)
	}
	return out
}

// augmentImage writes into dst the crop of the zero-padded src starting at
// (offH, offW), mirrored along the width axis when flip is set. Rather than
// materializing the padded image, out-of-range source positions read as zero.
func augmentImage(dst, src []float32, height, width, channels, pad, offH, offW int, flip bool) {
	for h := 0; h < height; h++ {
		srcH := h + offH - pad
		for w := 0; w < width; w++ {
			dstW := w
			if flip {
				dstW = width - 1 - w
			}
			di := (h*width + dstW) * channels
			srcW := w + offW - pad
			if srcH < 0 || srcH >= height || srcW < 0 || srcW >= width {
				for c := 0; c < channels; c++ {
					dst[di+c] = 0
				}
				continue
			}
			si := (srcH*width + srcW) * channels
			copy(dst[di:di+channels], src[si:si+channels])
		}
	}
}
