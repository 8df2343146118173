package pushups

import (
	"github.com/2beens/pushupchecker/internal/pose"

	"gonum.org/v1/gonum/spatial/r2"
)

var requiredLandmarks = []int{
	pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist,
	pose.RightShoulder, pose.RightElbow, pose.RightWrist,
	pose.LeftHip, pose.RightHip,
	pose.LeftAnkle, pose.RightAnkle,
}

// Measurement is what the rep state machine consumes for one frame.
type Measurement struct {
	LeftArmAngle  float64
	RightArmAngle float64
	Aligned       bool
}

// Measure derives the arm angles (shoulder-elbow-wrist) and the alignment flag
// from a landmark set. It returns false when no person was detected or the set
// misses one of the landmarks it needs.
func Measure(set pose.Set, alignmentTolerance float64) (Measurement, bool) {
	if !set.Detected() || !set.HasAll(requiredLandmarks...) {
		return Measurement{}, false
	}

	p := func(id int) r2.Vec {
		v, _ := set.Point(id)
		return v
	}

	return Measurement{
		LeftArmAngle:  AngleAtVertex(p(pose.LeftShoulder), p(pose.LeftElbow), p(pose.LeftWrist)),
		RightArmAngle: AngleAtVertex(p(pose.RightShoulder), p(pose.RightElbow), p(pose.RightWrist)),
		Aligned: IsAligned(
			p(pose.LeftHip), p(pose.RightHip),
			p(pose.LeftAnkle), p(pose.RightAnkle),
			alignmentTolerance,
		),
	}, true
}
