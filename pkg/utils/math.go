package utils

// ScaleInt maps v in [0, max] onto [0, width], rounding to nearest.
// Positive values never scale to zero so small clusters stay visible.
func ScaleInt(v, max, width int) int {
	if v <= 0 || max <= 0 || width <= 0 {
		return 0
	}
	if v >= max {
		return width
	}
	n := (v*width + max/2) / max
	if n == 0 {
		n = 1
	}
	return n
}
