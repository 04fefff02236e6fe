package currency

import "testing"

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name  string
		major float64
		want  int64
	}{
		{name: "whole amount", major: 10, want: 1000},
		{name: "two decimal places", major: 10.50, want: 1050},
		{name: "rounds half up", major: 0.005, want: 1},
		{name: "rounds down below half", major: 0.004, want: 0},
		{name: "negative amount", major: -12.34, want: -1234},
		{name: "zero", major: 0, want: 0},
		{name: "binary float artifact", major: 440.40, want: 44040},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToMinorUnits(tt.major); got != tt.want {
				t.Errorf("ToMinorUnits(%v) = %d, want %d", tt.major, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// Values with at most two decimal places must survive a
	// major->minor->major round trip exactly.
	values := []float64{0, 0.01, 0.99, 1, 10.50, 123.45, 999999.99, -55.55}
	for _, v := range values {
		if got := ToMajorUnits(ToMinorUnits(v)); got != v {
			t.Errorf("round trip of %v = %v", v, got)
		}
	}
}

func TestRoundMajor(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		places int
		want   float64
	}{
		{name: "two places", v: 60.0012, places: 2, want: 60.0},
		{name: "one place", v: 59.96, places: 1, want: 60.0},
		{name: "negative", v: -10.018, places: 2, want: -10.02},
		{name: "no-op", v: 42.5, places: 1, want: 42.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundMajor(tt.v, tt.places); got != tt.want {
				t.Errorf("RoundMajor(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
			}
		})
	}
}
