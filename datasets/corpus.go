package datasets

import "fmt"

// Images holds an ordered sequence of same-shaped images in one contiguous
// float32 buffer, laid out NHWC: image n, row h, column w, channel c is at
// Data[((n*Height+h)*Width+w)*Channels+c]. Pixel values are raw 0..255 at
// ingest time; normalization rescales them per epoch.
type Images struct {
	Data     []float32
	N        int
	Height   int
	Width    int
	Channels int
}

// NewImages allocates a zeroed image buffer for n images of the given shape.
func NewImages(n, height, width, channels int) Images {
	return Images{
		Data:     make([]float32, n*height*width*channels),
		N:        n,
		Height:   height,
		Width:    width,
		Channels: channels,
	}
}

// PixelsPerImage returns the number of float32 values one image occupies.
func (im Images) PixelsPerImage() int {
	return im.Height * im.Width * im.Channels
}

// Image returns the flat buffer of image i. The returned slice aliases the
// underlying storage.
func (im Images) Image(i int) []float32 {
	size := im.PixelsPerImage()
	return im.Data[i*size : (i+1)*size]
}

// Slice returns images [start, end). The result shares storage with im; it is
// a view, not a copy.
func (im Images) Slice(start, end int) Images {
	size := im.PixelsPerImage()
	return Images{
		Data:     im.Data[start*size : end*size],
		N:        end - start,
		Height:   im.Height,
		Width:    im.Width,
		Channels: im.Channels,
	}
}

// permuted returns a new image buffer with image i of the result being image
// perm[i] of im.
func (im Images) permuted(perm []int) Images {
	out := NewImages(im.N, im.Height, im.Width, im.Channels)
	for i, j := range perm {
		copy(out.Image(i), im.Image(j))
	}
	return out
}

func (im Images) String() string {
	return fmt.Sprintf("Images(%d, %d, %d, %d)", im.N, im.Height, im.Width, im.Channels)
}

// Labels holds an ordered sequence of labels in one contiguous float32
// buffer, one Dim-sized row per example. Dim is 1 for scalar class indices,
// or the number of classes for one-hot encoded labels.
//
// Labels and Images of a corpus are index-aligned: Labels row i describes
// Images image i. Every shuffle and slice in this package preserves that
// alignment; callers constructing corpora by hand must guarantee it, it is
// not validated here.
type Labels struct {
	Data []float32
	N    int
	Dim  int
}

// NewLabels allocates a zeroed label buffer for n examples of the given
// dimension.
func NewLabels(n, dim int) Labels {
	return Labels{Data: make([]float32, n*dim), N: n, Dim: dim}
}

// Label returns the flat row of example i, aliasing the underlying storage.
func (lb Labels) Label(i int) []float32 {
	return lb.Data[i*lb.Dim : (i+1)*lb.Dim]
}

// Slice returns labels [start, end), sharing storage with lb.
func (lb Labels) Slice(start, end int) Labels {
	return Labels{
		Data: lb.Data[start*lb.Dim : end*lb.Dim],
		N:    end - start,
		Dim:  lb.Dim,
	}
}

// permuted returns a new label buffer with row i of the result being row
// perm[i] of lb.
func (lb Labels) permuted(perm []int) Labels {
	out := NewLabels(lb.N, lb.Dim)
	for i, j := range perm {
		copy(out.Label(i), lb.Label(j))
	}
	return out
}

func (lb Labels) String() string {
	return fmt.Sprintf("Labels(%d, %d)", lb.N, lb.Dim)
}
