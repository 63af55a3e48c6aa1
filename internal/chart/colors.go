package chart

import (
	"fmt"
	"strings"
)

// ColorVector holds one bar color per cluster, in cluster order.
type ColorVector []string

// NewColorVector returns k colors set to defaultColor except position selected (1-based),
// which is set to highlightColor.
func NewColorVector(k, selected int, defaultColor, highlightColor string) (ColorVector, error) {
	if selected < 1 || selected > k {
		return nil, fmt.Errorf("selected cluster %d outside 1..%d", selected, k)
	}
	v := make(ColorVector, k)
	for i := range v {
		v[i] = defaultColor
	}
	v[selected-1] = highlightColor
	return v, nil
}

// Highlighted returns the 1-based positions that carry highlightColor.
func (v ColorVector) Highlighted(highlightColor string) []int {
	var out []int
	for i, c := range v {
		if strings.EqualFold(c, highlightColor) {
			out = append(out, i+1)
		}
	}
	return out
}
