package pushups

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultAlignmentTolerance is in pixels of the calibrated 640x480 frame.
const DefaultAlignmentTolerance = 50.0

// IsAligned reports whether both hips and both ankles are level within tolerance,
// which is used as a proxy for a straight plank. Only the vertical coordinate is
// compared; landmarks must already be scaled to the calibrated resolution.
func IsAligned(leftHip, rightHip, leftAnkle, rightAnkle r2.Vec, tolerance float64) bool {
	hipsLevel := math.Abs(leftHip.Y-rightHip.Y) < tolerance
	anklesLevel := math.Abs(leftAnkle.Y-rightAnkle.Y) < tolerance
	return hipsLevel && anklesLevel
}
