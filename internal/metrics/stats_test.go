package metrics

import "testing"

func TestConsistency(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 75},
		{"single value", []float64{42}, 75},
		{"two values", []float64{10, 20}, 70},
		{"all zero", []float64{0, 0, 0}, 65},
		{"perfectly stable", []float64{10, 10, 10, 10, 10}, 85},
		{"moderate variation", []float64{80, 100, 120}, 75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Consistency(tc.values); got != tc.want {
				t.Fatalf("Consistency(%v) = %v, want %v", tc.values, got, tc.want)
			}
		})
	}
}

func TestConsistencyStaysInBounds(t *testing.T) {
	values := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 100000}
	got := Consistency(values)
	if got < 20 || got > 95 {
		t.Fatalf("Consistency(%v) = %v, want within [20, 95]", values, got)
	}
}
