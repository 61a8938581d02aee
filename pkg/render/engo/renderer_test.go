// pkg/render/engo/renderer_test.go
package engo

import (
	"math"
	"testing"

	"github.com/EngoEngine/engo"
)

func TestCenteredPosition(t *testing.T) {
	testCases := []struct {
		name     string
		rotation float32
		want     engo.Point
	}{
		{"Upright", 0, engo.Point{X: 90, Y: 85}},
		{"HalfTurn", 180, engo.Point{X: 110, Y: 115}},
		{"QuarterTurn", 90, engo.Point{X: 115, Y: 90}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := centeredPosition(engo.Point{X: 100, Y: 100}, 20, 30, tc.rotation)
			if math.Abs(float64(got.X-tc.want.X)) > 1e-3 || math.Abs(float64(got.Y-tc.want.Y)) > 1e-3 {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}
