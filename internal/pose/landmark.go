package pose

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Landmark ids of the MediaPipe pose schema that the push-up checks use.
// The full schema has 33 points; ids are stable across frames.
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28

	NumLandmarks = 33
)

// Landmark is one anatomical point located in image pixel coordinates.
type Landmark struct {
	ID int
	X  float64
	Y  float64
}

func (l Landmark) Vec() r2.Vec {
	return r2.Vec{X: l.X, Y: l.Y}
}

// Set holds the landmarks of a single frame, keyed by anatomical id.
// An empty set means no person was detected.
type Set struct {
	byID map[int]Landmark
}

func NewSet(landmarks []Landmark) Set {
	if len(landmarks) == 0 {
		return Set{}
	}
	byID := make(map[int]Landmark, len(landmarks))
	for _, l := range landmarks {
		byID[l.ID] = l
	}
	return Set{byID: byID}
}

func (s Set) Len() int {
	return len(s.byID)
}

func (s Set) Detected() bool {
	return len(s.byID) > 0
}

// Point returns the position of the landmark with the given id.
func (s Set) Point(id int) (r2.Vec, bool) {
	l, ok := s.byID[id]
	if !ok {
		return r2.Vec{}, false
	}
	return l.Vec(), true
}

// HasAll reports whether every one of ids is present in the set.
func (s Set) HasAll(ids ...int) bool {
	for _, id := range ids {
		if _, ok := s.byID[id]; !ok {
			return false
		}
	}
	return true
}

// Landmarks returns the landmarks ordered by id.
func (s Set) Landmarks() []Landmark {
	landmarks := make([]Landmark, 0, len(s.byID))
	for _, l := range s.byID {
		landmarks = append(landmarks, l)
	}
	sort.Slice(landmarks, func(i, j int) bool {
		return landmarks[i].ID < landmarks[j].ID
	})
	return landmarks
}

// Frame is the per-frame output of the external pose model.
type Frame struct {
	Seq       int64
	Timestamp time.Time
	Landmarks Set
}
