package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestClickEvent_Cluster(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantOK  bool
		wantErr bool
	}{
		{"numeric label", `{"points":[{"label":3}]}`, 3, true, false},
		{"string label", `{"points":[{"label":"15"}]}`, 15, true, false},
		{"float label", `{"points":[{"label":1.0}]}`, 1, true, false},
		{"null event", `null`, 0, false, false},
		{"empty object", `{}`, 0, false, false},
		{"empty points", `{"points":[]}`, 0, false, false},
		{"missing label", `{"points":[{}]}`, 0, false, true},
		{"only first point counts", `{"points":[{"label":2},{"label":9}]}`, 2, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ev *ClickEvent
			if err := json.Unmarshal([]byte(tt.body), &ev); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, ok, err := ev.Cluster()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Cluster() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrMalformedEvent) {
				t.Errorf("error should wrap ErrMalformedEvent: %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Cluster() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLabel_UnmarshalInvalid(t *testing.T) {
	for _, body := range []string{`{"points":[{"label":"abc"}]}`, `{"points":[{"label":2.5}]}`, `{"points":[{"label":true}]}`} {
		var ev ClickEvent
		if err := json.Unmarshal([]byte(body), &ev); err == nil {
			t.Errorf("expected error for %s", body)
		}
	}
}

func TestParseClusterValue(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{" 14 ", 14, false},
		{"0", 0, false},
		{"7.0", 7, false},
		{"", 0, true},
		{"x", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClusterValue(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseClusterValue(%q) = %d, %v; want %d, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
