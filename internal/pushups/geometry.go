package pushups

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// AngleAtVertex returns the angle at b, in degrees within [0, 180], between the
// rays b->a and b->c. If a or c coincides with b the angle is 0.
func AngleAtVertex(a, b, c r2.Vec) float64 {
	ba := r2.Sub(a, b)
	bc := r2.Sub(c, b)

	normBA := r2.Norm(ba)
	normBC := r2.Norm(bc)
	if normBA == 0 || normBC == 0 {
		return 0
	}

	cos := r2.Dot(ba, bc) / (normBA * normBC)
	// rounding can push |cos| slightly past 1, and acos would give NaN
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180.0 / math.Pi
}
