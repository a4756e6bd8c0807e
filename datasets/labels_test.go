package datasets

import "testing"

func TestLabelsToOneHot(t *testing.T) {
	labels := NewLabels(3, 1)
	labels.Data[0], labels.Data[1], labels.Data[2] = 0, 2, 1

	encoded, err := LabelsToOneHot(labels, 3)
	if err != nil {
		t.Fatalf("LabelsToOneHot failed: %v", err)
	}
	if encoded.N != 3 || encoded.Dim != 3 {
		t.Fatalf("encoded shape %v, want Labels(3, 3)", encoded)
	}
	want := []float32{1, 0, 0, 0, 0, 1, 0, 1, 0}
	for i, v := range want {
		if encoded.Data[i] != v {
			t.Fatalf("encoded[%d] = %v, want %v", i, encoded.Data[i], v)
		}
	}
}

func TestLabelsToOneHotIsIdempotent(t *testing.T) {
	labels := NewLabels(2, 4)
	labels.Data[1] = 1
	labels.Data[4+3] = 1
	again, err := LabelsToOneHot(labels, 4)
	if err != nil {
		t.Fatalf("LabelsToOneHot failed: %v", err)
	}
	if &again.Data[0] != &labels.Data[0] {
		t.Fatalf("already one-hot labels should pass through unchanged")
	}
}

func TestLabelsToOneHotRejectsOutOfRange(t *testing.T) {
	labels := NewLabels(1, 1)
	labels.Data[0] = 7
	if _, err := LabelsToOneHot(labels, 5); err == nil {
		t.Fatalf("class 7 of 5 should fail")
	}
	labels.Data[0] = -1
	if _, err := LabelsToOneHot(labels, 5); err == nil {
		t.Fatalf("negative class should fail")
	}
}

func TestLabelsFromOneHotRoundTrip(t *testing.T) {
	labels := NewLabels(5, 1)
	for i := 0; i < 5; i++ {
		labels.Data[i] = float32((i * 3) % 5)
	}
	encoded, err := LabelsToOneHot(labels, 5)
	if err != nil {
		t.Fatalf("LabelsToOneHot failed: %v", err)
	}
	decoded := LabelsFromOneHot(encoded)
	for i := 0; i < 5; i++ {
		if decoded.Data[i] != labels.Data[i] {
			t.Fatalf("round trip broke label %d: %v -> %v", i, labels.Data[i], decoded.Data[i])
		}
	}
}
