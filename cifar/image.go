package cifar

import (
	"image"

	"github.com/JesusPlz/vision-networks/datasets"
)

// ToImage converts image i of a raw (0..255) corpus into a Go image, for
// visual inspection or PNG export.
func ToImage(images datasets.Images, i int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, images.Width, images.Height))
	src := images.Image(i)
	pos := 0
	for h := 0; h < images.Height; h++ {
		for w := 0; w < images.Width; w++ {
			for d := 0; d < images.Channels; d++ {
				img.Pix[h*img.Stride+w*4+d] = clampByte(src[pos])
				pos++
			}
			img.Pix[h*img.Stride+w*4+3] = 255 // alpha
		}
	}
	return img
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
