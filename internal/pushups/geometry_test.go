package pushups

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestAngleAtVertex(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c r2.Vec
		want    float64
	}{
		{
			name: "right angle",
			a:    r2.Vec{X: 0, Y: 1},
			b:    r2.Vec{X: 0, Y: 0},
			c:    r2.Vec{X: 1, Y: 0},
			want: 90,
		},
		{
			name: "collinear, straight arm",
			a:    r2.Vec{X: 0, Y: 0},
			b:    r2.Vec{X: 1, Y: 1},
			c:    r2.Vec{X: 2, Y: 2},
			want: 180,
		},
		{
			name: "folded back on itself",
			a:    r2.Vec{X: 2, Y: 0},
			b:    r2.Vec{X: 0, Y: 0},
			c:    r2.Vec{X: 5, Y: 0},
			want: 0,
		},
		{
			name: "forty five degrees, pixel coords",
			a:    r2.Vec{X: 400, Y: 200},
			b:    r2.Vec{X: 300, Y: 200},
			c:    r2.Vec{X: 400, Y: 100},
			want: 45,
		},
		{
			name: "a coincides with b",
			a:    r2.Vec{X: 3, Y: 3},
			b:    r2.Vec{X: 3, Y: 3},
			c:    r2.Vec{X: 10, Y: 1},
			want: 0,
		},
		{
			name: "c coincides with b",
			a:    r2.Vec{X: 10, Y: 1},
			b:    r2.Vec{X: 3, Y: 3},
			c:    r2.Vec{X: 3, Y: 3},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngleAtVertex(tt.a, tt.b, tt.c)
			assert.InDelta(t, tt.want, got, 1e-9)
			// symmetric in a and c
			assert.InDelta(t, got, AngleAtVertex(tt.c, tt.b, tt.a), 1e-9)
		})
	}
}

func TestAngleAtVertex_NeverNaN(t *testing.T) {
	// nearly collinear points whose cosine rounds past 1
	a := r2.Vec{X: 0.1, Y: 0.1}
	b := r2.Vec{X: 0.2, Y: 0.2}
	c := r2.Vec{X: 0.30000000000000004, Y: 0.30000000000000004}

	got := AngleAtVertex(a, b, c)
	assert.False(t, math.IsNaN(got))
	assert.InDelta(t, 180, got, 1e-6)

	got = AngleAtVertex(c, b, r2.Vec{X: 0.4, Y: 0.4})
	assert.False(t, math.IsNaN(got))
	assert.InDelta(t, 0, got, 1e-6)
}
