package datasets

import (
	"fmt"
	"math"
)

// ChannelStats holds per-channel pixel statistics over a whole corpus.
type ChannelStats struct {
	Mean []float64
	Std  []float64
}

// ComputeChannelStats computes the mean and population standard deviation of
// every channel across all images and pixels of the corpus. Unlike
// NormalizeByChannels, which standardizes each image independently, this
// aggregates corpus-wide, which is what dataset inspection reports.
func ComputeChannelStats(images Images) ChannelStats {
	channels := images.Channels
	sum := make([]float64, channels)
	sumSq := make([]float64, channels)
	for i := 0; i < len(images.Data); i += channels {
		for c := 0; c < channels; c++ {
			v := float64(images.Data[i+c])
			sum[c] += v
			sumSq[c] += v * v
		}
	}
	count := float64(images.N * images.Height * images.Width)
	stats := ChannelStats{
		Mean: make([]float64, channels),
		Std:  make([]float64, channels),
	}
	for c := 0; c < channels; c++ {
		mean := sum[c] / count
		stats.Mean[c] = mean
		stats.Std[c] = math.Sqrt(sumSq[c]/count - mean*mean)
	}
	return stats
}

func (s ChannelStats) String() string {
	out := ""
	for c := range s.Mean {
		if c > 0 {
			out += ", "
		}
		out += fmt.Sprintf("ch%d mean=%.3f std=%.3f", c, s.Mean[c], s.Std[c])
	}
	return out
}

// ClassCounts tallies how many examples carry each class. Labels may be
// scalar indices or one-hot vectors.
func ClassCounts(labels Labels, nClasses int) []int {
	counts := make([]int, nClasses)
	if labels.Dim == 1 {
		for i := 0; i < labels.N; i++ {
			class := int(labels.Data[i])
			if class >= 0 && class < nClasses {
				counts[class]++
			}
		}
		return counts
	}
	decoded := LabelsFromOneHot(labels)
	for i := 0; i < decoded.N; i++ {
		counts[int(decoded.Data[i])]++
	}
	return counts
}
