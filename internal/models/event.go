package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ClickEvent is the click payload sent by the chart: points[0].label names the clicked bar.
type ClickEvent struct {
	Points []ClickPoint `json:"points"`
}

// ClickPoint is one clicked point of a ClickEvent.
type ClickPoint struct {
	Label Label `json:"label"`
}

// Label is a bar label. It accepts a JSON number or a numeric string.
type Label struct {
	Value int
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = Label{}
		return nil
	}
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}
	v, err := parseIntegral(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("label %s: %w", data, err)
	}
	*l = Label{Value: v, Set: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Label) MarshalJSON() ([]byte, error) {
	if !l.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(l.Value)), nil
}

// ErrMalformedEvent is returned for click events that carry points but no usable label.
var ErrMalformedEvent = errors.New("malformed click event")

// Cluster returns the clicked cluster index. ok is false when the event carries no click
// (nil event or no points).
func (e *ClickEvent) Cluster() (cluster int, ok bool, err error) {
	if e == nil || len(e.Points) == 0 {
		return 0, false, nil
	}
	if !e.Points[0].Label.Set {
		return 0, false, fmt.Errorf("%w: points[0].label is missing", ErrMalformedEvent)
	}
	return e.Points[0].Label.Value, true, nil
}

// parseIntegral parses s as an integer, also accepting integral floats such as "3.0".
func parseIntegral(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return int(f), nil
}

// ParseClusterValue parses a raw cluster cell such as "3" or "3.0".
func ParseClusterValue(s string) (int, error) {
	return parseIntegral(strings.TrimSpace(s))
}
