package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantErr     bool
		errContains string
	}{
		{name: "simple", input: "Raider", want: "Raider"},
		{name: "spaces and punctuation", input: "Raider-2 (west)", want: "Raider-2 (west)"},
		{name: "trimmed", input: "  Hauler  ", want: "Hauler"},
		{name: "empty", input: "", wantErr: true, errContains: "cannot be empty"},
		{name: "only whitespace", input: "   ", wantErr: true, errContains: "only whitespace"},
		{name: "too long", input: strings.Repeat("a", MaxNameLen+1), wantErr: true, errContains: "too long"},
		{name: "control character", input: "Rai\x01der", wantErr: true, errContains: "control characters"},
		{name: "markup", input: "<Raider>", wantErr: true, errContains: "invalid characters"},
		{name: "invalid utf8", input: "Raider\xff", wantErr: true, errContains: "UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.errContains)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateDestination(t *testing.T) {
	tests := []struct {
		name    string
		point   physics.Vector3
		wantErr bool
	}{
		{"origin", physics.Vector3{}, false},
		{"on the edge", physics.Vector3{X: 50, Z: -50}, false},
		{"height is ignored", physics.Vector3{X: 10, Y: 500, Z: 10}, false},
		{"outside on X", physics.Vector3{X: 50.1}, true},
		{"outside on Z", physics.Vector3{Z: -80}, true},
		{"NaN", physics.Vector3{X: math.NaN()}, true},
		{"infinite", physics.Vector3{Z: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDestination(tt.point, 100)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDestination(%v) error = %v, wantErr %v", tt.point, err, tt.wantErr)
			}
		})
	}
}

func TestParseDestination(t *testing.T) {
	p, err := ParseDestination(" 12.5, -30 ", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != (physics.Vector3{X: 12.5, Z: -30}) {
		t.Errorf("got %v", p)
	}

	for _, bad := range []string{"", "1", "1,2,3", "a,2", "1,b", "70,0"} {
		if _, err := ParseDestination(bad, 100); err == nil {
			t.Errorf("ParseDestination(%q) should fail", bad)
		}
	}
}
