package domain

import (
	"math"
	"reflect"
	"testing"
)

func TestMeanVector(t *testing.T) {
	got := MeanVector([][]float32{
		{1, 2, 3},
		{3, 4, 5},
	})
	want := []float32{2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MeanVector = %v, want %v", got, want)
	}
}

func TestMeanVector_Single(t *testing.T) {
	got := MeanVector([][]float32{{0.5, 0.25}})
	want := []float32{0.5, 0.25}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MeanVector = %v, want %v", got, want)
	}
}

func TestMeanVector_Invalid(t *testing.T) {
	if got := MeanVector(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := MeanVector([][]float32{{1, 2}, {1, 2, 3}}); got != nil {
		t.Errorf("expected nil for mismatched dimensions, got %v", got)
	}
	if got := MeanVector([][]float32{{}}); got != nil {
		t.Errorf("expected nil for zero-dimension vectors, got %v", got)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"mismatched dims", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
