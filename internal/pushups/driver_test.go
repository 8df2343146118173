package pushups

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/2beens/pushupchecker/internal/pose"
	"github.com/2beens/pushupchecker/internal/pose/posetest"
	"github.com/2beens/pushupchecker/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// expectFrames makes src return frames in order, then endErr forever.
func expectFrames(src *pose.MockSource, frames []pose.Frame, endErr error) {
	i := 0
	src.EXPECT().
		Next(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (pose.Frame, error) {
			if i < len(frames) {
				i++
				return frames[i-1], nil
			}
			return pose.Frame{}, endErr
		}).
		AnyTimes()
}

func newTestDriver(t *testing.T, goal int) (*Driver, *pose.MockSource, *Session, *metrics.Manager) {
	t.Helper()
	ctrl := gomock.NewController(t)
	src := pose.NewMockSource(ctrl)
	session := NewSession(SessionParams{
		Goal:       goal,
		Thresholds: DefaultThresholds(),
	})
	metricsManager := metrics.NewTestManager()
	return NewDriver(src, session, metricsManager), src, session, metricsManager
}

func drain(updates <-chan Snapshot) []Snapshot {
	var all []Snapshot
	for s := range updates {
		all = append(all, s)
	}
	return all
}

func TestDriver_GoalReached(t *testing.T) {
	d, src, session, mm := newTestDriver(t, 2)

	frames := append(posetest.Reps(3), posetest.Empty(100))
	expectFrames(src, frames, io.EOF)
	src.EXPECT().Close().Return(nil).Times(1)

	require.NoError(t, d.Run(context.Background()))

	snap := session.Snapshot()
	assert.Equal(t, StatusGoalReached, snap.Status)
	assert.Equal(t, 2, snap.Count)

	// 4 frames read, the loop stopped on the goal
	assert.Equal(t, 4.0, testutil.ToFloat64(mm.CounterFrames))
	assert.Equal(t, 2.0, testutil.ToFloat64(mm.CounterReps))
	assert.Equal(t, 2.0, testutil.ToFloat64(mm.GaugeRepCount))
	assert.Equal(t, 1.0, testutil.ToFloat64(mm.CounterSessions.WithLabelValues(StatusGoalReached.String())))
	assert.Zero(t, testutil.ToFloat64(mm.CounterSourceFailures))

	updates := drain(d.Updates())
	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	assert.True(t, last.GoalReached)
	assert.Equal(t, FeedbackGoalReached, last.Feedback)
}

func TestDriver_EndOfStream(t *testing.T) {
	d, src, session, mm := newTestDriver(t, 0)

	frames := []pose.Frame{
		posetest.Extended(1),
		posetest.Empty(2),
		posetest.FlexedMisaligned(3),
		posetest.Flexed(4),
	}
	expectFrames(src, frames, io.EOF)
	src.EXPECT().Close().Return(nil).Times(1)

	require.NoError(t, d.Run(context.Background()))

	snap := session.Snapshot()
	assert.Equal(t, StatusStopped, snap.Status)
	assert.Equal(t, 1, snap.Count)

	assert.Equal(t, 4.0, testutil.ToFloat64(mm.CounterFrames))
	assert.Equal(t, 1.0, testutil.ToFloat64(mm.CounterFramesNoPose))
	assert.Equal(t, 1.0, testutil.ToFloat64(mm.CounterRepsRejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(mm.CounterReps))
	assert.Equal(t, 1.0, testutil.ToFloat64(mm.CounterSessions.WithLabelValues(StatusStopped.String())))

	updates := drain(d.Updates())
	assert.Equal(t, StatusStopped, updates[len(updates)-1].Status)
}

func TestDriver_SourceFailure(t *testing.T) {
	d, src, session, mm := newTestDriver(t, 10)

	srcErr := errors.New("camera unplugged")
	expectFrames(src, posetest.Reps(1), srcErr)
	src.EXPECT().Close().Return(nil).Times(1)

	err := d.Run(context.Background())
	require.ErrorIs(t, err, srcErr)

	snap := session.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "camera unplugged", snap.Error)
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, 1.0, testutil.ToFloat64(mm.CounterSourceFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(mm.CounterSessions.WithLabelValues(StatusFailed.String())))

	updates := drain(d.Updates())
	assert.Equal(t, StatusFailed, updates[len(updates)-1].Status)
}

func TestDriver_CloseErrorReported(t *testing.T) {
	d, src, _, _ := newTestDriver(t, 0)

	expectFrames(src, nil, io.EOF)
	closeErr := errors.New("socket busy")
	src.EXPECT().Close().Return(closeErr).Times(1)

	err := d.Run(context.Background())
	require.ErrorIs(t, err, closeErr)
	assert.Contains(t, err.Error(), "close pose source")
	drain(d.Updates())
}

func TestDriver_FailureAndCloseErrorCombined(t *testing.T) {
	d, src, _, _ := newTestDriver(t, 0)

	readErr := errors.New("read failed")
	closeErr := errors.New("close failed")
	expectFrames(src, nil, readErr)
	src.EXPECT().Close().Return(closeErr).Times(1)

	err := d.Run(context.Background())
	assert.ErrorIs(t, err, readErr)
	assert.ErrorIs(t, err, closeErr)
	drain(d.Updates())
}

func TestDriver_Cancel(t *testing.T) {
	d, src, session, _ := newTestDriver(t, 0)

	frames := posetest.Reps(2)
	i := 0
	src.EXPECT().
		Next(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (pose.Frame, error) {
			if i < len(frames) {
				i++
				return frames[i-1], nil
			}
			<-ctx.Done()
			return pose.Frame{}, ctx.Err()
		}).
		AnyTimes()
	src.EXPECT().Close().Return(nil).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() {
		runErr <- d.Run(ctx)
	}()

	// wait for both reps before cancelling
	require.Eventually(t, func() bool {
		return session.Snapshot().Count == 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop after cancel")
	}

	assert.Equal(t, StatusStopped, session.Snapshot().Status)
	drain(d.Updates())
}

func TestDriver_CancelledBeforeStart(t *testing.T) {
	d, src, session, _ := newTestDriver(t, 0)
	src.EXPECT().Next(gomock.Any()).Times(0)
	src.EXPECT().Close().Return(nil).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, d.Run(ctx))
	assert.Equal(t, StatusStopped, session.Snapshot().Status)

	updates := drain(d.Updates())
	require.Len(t, updates, 1)
	assert.Equal(t, StatusStopped, updates[0].Status)
}

func TestDriver_PublishLatestWins(t *testing.T) {
	d, _, session, _ := newTestDriver(t, 0)

	for i := 0; i < 5; i++ {
		snap := session.Snapshot()
		snap.Count = i
		d.publish(snap)
	}

	got := <-d.Updates()
	assert.Equal(t, 4, got.Count)
	select {
	case s := <-d.Updates():
		t.Fatalf("unexpected extra snapshot: %+v", s)
	default:
	}
}
