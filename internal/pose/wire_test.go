package pose_test

import (
	"testing"
	"time"

	"github.com/2beens/pushupchecker/internal/pose"
	"github.com/2beens/pushupchecker/internal/pose/posetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame_Normalized(t *testing.T) {
	data := []byte(`{
		"seq": 3,
		"ts": "2024-01-01T10:00:00Z",
		"normalized": true,
		"landmarks": [
			{"id": 11, "x": 0.5, "y": 0.25},
			{"id": 12, "x": 0.1234, "y": 0.999}
		]
	}`)

	frame, err := pose.DecodeFrame(data, pose.DefaultResolution)
	require.NoError(t, err)
	assert.Equal(t, int64(3), frame.Seq)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), frame.Timestamp.UTC())
	assert.Equal(t, 2, frame.Landmarks.Len())

	p, ok := frame.Landmarks.Point(pose.LeftShoulder)
	require.True(t, ok)
	assert.Equal(t, 320.0, p.X)
	assert.Equal(t, 120.0, p.Y)

	// truncated to whole pixels
	p, ok = frame.Landmarks.Point(pose.RightShoulder)
	require.True(t, ok)
	assert.Equal(t, 78.0, p.X)
	assert.Equal(t, 479.0, p.Y)
}

func TestDecodeFrame_CustomResolution(t *testing.T) {
	data := []byte(`{"normalized": true, "landmarks": [{"id": 0, "x": 0.5, "y": 0.5}]}`)
	frame, err := pose.DecodeFrame(data, pose.Resolution{Width: 1280, Height: 720})
	require.NoError(t, err)
	p, _ := frame.Landmarks.Point(pose.Nose)
	assert.Equal(t, 640.0, p.X)
	assert.Equal(t, 360.0, p.Y)
}

func TestDecodeFrame_PixelCoordinates(t *testing.T) {
	data := []byte(`{"seq": 1, "landmarks": [{"id": 13, "x": 301.5, "y": 250.25}]}`)
	frame, err := pose.DecodeFrame(data, pose.DefaultResolution)
	require.NoError(t, err)
	p, ok := frame.Landmarks.Point(pose.LeftElbow)
	require.True(t, ok)
	assert.Equal(t, 301.5, p.X)
	assert.Equal(t, 250.25, p.Y)
}

func TestDecodeFrame_NoPerson(t *testing.T) {
	for _, data := range []string{
		`{"seq": 1}`,
		`{"seq": 1, "landmarks": []}`,
		`{"seq": 1, "landmarks": null}`,
	} {
		frame, err := pose.DecodeFrame([]byte(data), pose.DefaultResolution)
		require.NoError(t, err, data)
		assert.False(t, frame.Landmarks.Detected(), data)
	}
}

func TestDecodeFrame_MissingTimestamp(t *testing.T) {
	before := time.Now()
	frame, err := pose.DecodeFrame([]byte(`{"seq": 1}`), pose.DefaultResolution)
	require.NoError(t, err)
	assert.False(t, frame.Timestamp.Before(before))
}

func TestDecodeFrame_Invalid(t *testing.T) {
	for _, data := range []string{
		`not json`,
		`{"seq": "one"}`,
		`{"landmarks": [{"id": 33, "x": 1, "y": 1}]}`,
		`{"landmarks": [{"id": -1, "x": 1, "y": 1}]}`,
	} {
		_, err := pose.DecodeFrame([]byte(data), pose.DefaultResolution)
		assert.ErrorIs(t, err, pose.ErrInvalidFrame, data)
	}
}

func TestEncodeFrame(t *testing.T) {
	in := posetest.Extended(7)
	data, err := pose.EncodeFrame(in)
	require.NoError(t, err)

	out, err := pose.DecodeFrame(data, pose.DefaultResolution)
	require.NoError(t, err)
	assert.Equal(t, in.Seq, out.Seq)
	assert.True(t, in.Timestamp.Equal(out.Timestamp))
	assert.Equal(t, in.Landmarks.Landmarks(), out.Landmarks.Landmarks())
}
