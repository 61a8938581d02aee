// Package validation checks user-supplied names and destinations before they
// reach a level.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opd-ai/go-spacebarge/pkg/physics"
)

// MaxNameLen is the longest flier name accepted.
const MaxNameLen = 32

// Letters, digits, spaces and a little punctuation.
var validNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.()]+$`)

// ValidateName trims a flier name and rejects empty, oversized or unusual
// names.
func ValidateName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLen {
		return "", fmt.Errorf("name too long: %d characters (max %d)", len(name), MaxNameLen)
	}
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("name contains invalid UTF-8 characters")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("name cannot be only whitespace")
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("name contains control characters")
		}
	}
	if !validNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("name %q contains invalid characters", trimmed)
	}
	return trimmed, nil
}

// ValidateDestination rejects points that are not finite or lie outside a
// square world of the given size centred on the origin.
func ValidateDestination(p physics.Vector3, worldSize float64) error {
	for _, c := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("destination %v is not finite", p)
		}
	}
	half := worldSize / 2
	if math.Abs(p.X) > half || math.Abs(p.Z) > half {
		return fmt.Errorf("destination (%.1f, %.1f) is outside the world (±%.1f)", p.X, p.Z, half)
	}
	return nil
}

// ParseDestination parses "x,z" into a ground-plane point and validates it
// against the world size.
func ParseDestination(s string, worldSize float64) (physics.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return physics.Vector3{}, fmt.Errorf("destination %q must be \"x,z\"", s)
	}

	var coords [2]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return physics.Vector3{}, fmt.Errorf("destination %q: %w", s, err)
		}
		coords[i] = v
	}

	p := physics.Vector3{X: coords[0], Z: coords[1]}
	if err := ValidateDestination(p, worldSize); err != nil {
		return physics.Vector3{}, err
	}
	return p, nil
}
