package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []float64{7}, 0.5, 7},
		{"p zero", []float64{1, 2, 3}, 0, 1},
		{"p one", []float64{1, 2, 3}, 1, 3},
		{"median odd", []float64{1, 2, 3}, 0.5, 2},
		{"median even interpolates", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90 of ten", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
		{"p below zero clamps", []float64{1, 2, 3}, -0.5, 1},
		{"p above one clamps", []float64{1, 2, 3}, 1.5, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Percentile(tc.sorted, tc.p); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tc.sorted, tc.p, got, tc.want)
			}
		})
	}
}

func TestComputeErrorStats(t *testing.T) {
	mean, p50, p90 := ComputeErrorStats([]float64{30, 10, 20})
	if math.Abs(mean-20) > 1e-12 {
		t.Errorf("mean = %v, want 20", mean)
	}
	if math.Abs(p50-20) > 1e-12 {
		t.Errorf("p50 = %v, want 20", p50)
	}
	if math.Abs(p90-28) > 1e-12 {
		t.Errorf("p90 = %v, want 28", p90)
	}
}

func TestComputeErrorStatsEmpty(t *testing.T) {
	mean, p50, p90 := ComputeErrorStats(nil)
	if mean != 0 || p50 != 0 || p90 != 0 {
		t.Errorf("empty input gave %v/%v/%v, want zeros", mean, p50, p90)
	}
}

func TestComputeErrorStatsDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeErrorStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}
