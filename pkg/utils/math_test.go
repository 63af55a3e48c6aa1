package utils

import "testing"

func TestScaleInt(t *testing.T) {
	tests := []struct {
		v, max, width int
		want          int
	}{
		{0, 10, 40, 0},
		{10, 10, 40, 40},
		{5, 10, 40, 20},
		{1, 1000, 40, 1},
		{3, 0, 40, 0},
		{12, 10, 40, 40},
		{7, 10, 0, 0},
	}
	for _, tt := range tests {
		if got := ScaleInt(tt.v, tt.max, tt.width); got != tt.want {
			t.Errorf("ScaleInt(%d, %d, %d) = %d, want %d", tt.v, tt.max, tt.width, got, tt.want)
		}
	}
}
