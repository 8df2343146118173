// Package posetest builds synthetic pose frames for tests.
package posetest

import (
	"math"
	"strings"
	"time"

	"github.com/2beens/pushupchecker/internal/pose"
)

const (
	armLength = 100.0
	hipY      = 400.0
	ankleY    = 420.0
)

// FrameWithAngles returns a frame whose left and right elbows bend at the given
// angles (degrees). When aligned is false the right hip sits far below the left one.
func FrameWithAngles(seq int64, leftAngle, rightAngle float64, aligned bool) pose.Frame {
	rightHipY := hipY
	if !aligned {
		rightHipY += 200
	}

	landmarks := []pose.Landmark{
		{ID: pose.Nose, X: 320, Y: 100},
		{ID: pose.LeftHip, X: 250, Y: hipY},
		{ID: pose.RightHip, X: 390, Y: rightHipY},
		{ID: pose.LeftAnkle, X: 250, Y: ankleY},
		{ID: pose.RightAnkle, X: 390, Y: ankleY},
	}
	landmarks = append(landmarks, arm(pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, 200, leftAngle)...)
	landmarks = append(landmarks, arm(pose.RightShoulder, pose.RightElbow, pose.RightWrist, 440, rightAngle)...)

	return pose.Frame{
		Seq:       seq,
		Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(seq) * 33 * time.Millisecond),
		Landmarks: pose.NewSet(landmarks),
	}
}

// arm places the shoulder straight above the elbow and rotates the wrist so the
// elbow angle equals angle.
func arm(shoulderID, elbowID, wristID int, x, angle float64) []pose.Landmark {
	rad := angle * math.Pi / 180
	elbowY := 250.0
	return []pose.Landmark{
		{ID: shoulderID, X: x, Y: elbowY - armLength},
		{ID: elbowID, X: x, Y: elbowY},
		{ID: wristID, X: x + armLength*math.Sin(rad), Y: elbowY - armLength*math.Cos(rad)},
	}
}

func Extended(seq int64) pose.Frame {
	return FrameWithAngles(seq, 175, 175, true)
}

func Flexed(seq int64) pose.Frame {
	return FrameWithAngles(seq, 30, 30, true)
}

func FlexedMisaligned(seq int64) pose.Frame {
	return FrameWithAngles(seq, 30, 30, false)
}

// Midway is between both thresholds and never changes the rep state.
func Midway(seq int64) pose.Frame {
	return FrameWithAngles(seq, 100, 100, true)
}

func Empty(seq int64) pose.Frame {
	return pose.Frame{Seq: seq, Landmarks: pose.NewSet(nil)}
}

// Reps returns n full extended/flexed cycles.
func Reps(n int) []pose.Frame {
	frames := make([]pose.Frame, 0, 2*n)
	for i := 0; i < n; i++ {
		frames = append(frames, Extended(int64(2*i)), Flexed(int64(2*i+1)))
	}
	return frames
}

// JSONL encodes frames one per line, the replay file format.
func JSONL(frames ...pose.Frame) string {
	var sb strings.Builder
	for _, f := range frames {
		data, err := pose.EncodeFrame(f)
		if err != nil {
			panic(err)
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}
