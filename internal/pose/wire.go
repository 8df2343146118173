package pose

import (
	"errors"
	"fmt"
	"math"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrInvalidFrame = errors.New("invalid pose frame")

// Resolution is the frame size the pose stream is calibrated for. Normalized
// landmark coordinates are scaled into it, the same way the capture side resizes
// every frame before running detection.
type Resolution struct {
	Width  int
	Height int
}

var DefaultResolution = Resolution{Width: 640, Height: 480}

type wireLandmark struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type wireFrame struct {
	Seq        int64          `json:"seq"`
	Timestamp  time.Time      `json:"ts"`
	Normalized bool           `json:"normalized"`
	Landmarks  []wireLandmark `json:"landmarks"`
}

// DecodeFrame parses one JSON encoded frame coming from the pose process.
func DecodeFrame(data []byte, res Resolution) (Frame, error) {
	var wf wireFrame
	if err := json.Unmarshal(data, &wf); err != nil {
		return Frame{}, fmt.Errorf("%w: %s", ErrInvalidFrame, err)
	}

	landmarks := make([]Landmark, 0, len(wf.Landmarks))
	for _, wl := range wf.Landmarks {
		if wl.ID < 0 || wl.ID >= NumLandmarks {
			return Frame{}, fmt.Errorf("%w: landmark id %d out of range", ErrInvalidFrame, wl.ID)
		}
		l := Landmark{ID: wl.ID, X: wl.X, Y: wl.Y}
		if wf.Normalized {
			l.X = math.Trunc(wl.X * float64(res.Width))
			l.Y = math.Trunc(wl.Y * float64(res.Height))
		}
		landmarks = append(landmarks, l)
	}

	ts := wf.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return Frame{
		Seq:       wf.Seq,
		Timestamp: ts,
		Landmarks: NewSet(landmarks),
	}, nil
}

// EncodeFrame is the inverse of DecodeFrame for pixel coordinates. Used by the
// recorder side of replay files and by tests.
func EncodeFrame(f Frame) ([]byte, error) {
	wf := wireFrame{
		Seq:       f.Seq,
		Timestamp: f.Timestamp,
	}
	for _, l := range f.Landmarks.Landmarks() {
		wf.Landmarks = append(wf.Landmarks, wireLandmark{ID: l.ID, X: l.X, Y: l.Y})
	}
	return json.Marshal(wf)
}
