package datasets

import "fmt"

// LabelsToOneHot converts scalar class-index labels into one-hot vectors of
// length nClasses. Labels whose Dim already equals nClasses are assumed to be
// one-hot and are returned unchanged, so the conversion is idempotent at the
// provider boundary.
func LabelsToOneHot(labels Labels, nClasses int) (Labels, error) {
	if labels.Dim == nClasses {
		return labels, nil
	}
	if labels.Dim != 1 {
		return Labels{}, fmt.Errorf("cannot one-hot encode labels of dim %d into %d classes", labels.Dim, nClasses)
	}
	out := NewLabels(labels.N, nClasses)
	for i := 0; i < labels.N; i++ {
		class := int(labels.Data[i])
		if class < 0 || class >= nClasses {
			return Labels{}, fmt.Errorf("label %d has class %d, outside [0, %d)", i, class, nClasses)
		}
		out.Data[i*nClasses+class] = 1
	}
	return out, nil
}

// LabelsFromOneHot converts one-hot labels back to scalar class indices by
// taking the argmax of each row.
func LabelsFromOneHot(labels Labels) Labels {
	out := NewLabels(labels.N, 1)
	for i := 0; i < labels.N; i++ {
		row := labels.Label(i)
		best := 0
		for j := 1; j < len(row); j++ {
			if row[j] > row[best] {
				best = j
			}
		}
		out.Data[i] = float32(best)
	}
	return out
}
