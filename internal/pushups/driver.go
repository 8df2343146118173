package pushups

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/2beens/pushupchecker/internal/pose"
	"github.com/2beens/pushupchecker/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Driver runs the frame loop of one session: read a frame, feed the session,
// publish the new snapshot. It owns the pose source and closes it when Run returns.
type Driver struct {
	source  pose.Source
	session *Session
	metrics *metrics.Manager
	updates chan Snapshot
}

func NewDriver(source pose.Source, session *Session, metricsManager *metrics.Manager) *Driver {
	return &Driver{
		source:  source,
		session: session,
		metrics: metricsManager,
		updates: make(chan Snapshot, 1),
	}
}

// Updates delivers the latest snapshot after every frame. A slow reader only misses
// intermediate snapshots, never the last one. The channel is closed when Run returns.
func (d *Driver) Updates() <-chan Snapshot {
	return d.updates
}

// Run blocks until ctx is done, the goal is reached, or the source fails.
// Cancellation is checked once per frame; a frame read in progress is not interrupted
// other than through ctx being passed to the source.
func (d *Driver) Run(ctx context.Context) (err error) {
	sessionID := d.session.ID()
	log.Debugf("session [%s] frame loop started", sessionID)

	defer func() {
		if cErr := d.source.Close(); cErr != nil {
			err = multierr.Append(err, fmt.Errorf("close pose source: %w", cErr))
		}

		final := d.session.Snapshot()
		d.metrics.CounterSessions.WithLabelValues(final.Status.String()).Inc()
		d.publish(final)
		close(d.updates)

		log.Debugf("session [%s] frame loop done: status [%s], count [%d]", sessionID, final.Status, final.Count)
	}()

	d.publish(d.session.Snapshot())

	for {
		select {
		case <-ctx.Done():
			d.session.Stop()
			return nil
		default:
		}

		frame, err := d.source.Next(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				d.session.Stop()
				return nil
			case errors.Is(err, io.EOF):
				log.Infof("session [%s] pose stream ended", sessionID)
				d.session.Stop()
				return nil
			default:
				log.Errorf("session [%s] pose source failed: %s", sessionID, err)
				d.metrics.CounterSourceFailures.Inc()
				d.session.Fail(err)
				return fmt.Errorf("read pose frame: %w", err)
			}
		}

		snapshot := d.process(frame)
		d.publish(snapshot)

		if snapshot.GoalReached {
			log.Infof("session [%s] goal of %d reached", sessionID, snapshot.Goal)
			return nil
		}
		if !snapshot.Running() {
			return nil
		}
	}
}

func (d *Driver) process(frame pose.Frame) Snapshot {
	defer func(begin time.Time) {
		d.metrics.HistFrameProcessDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())

	snapshot, outcome := d.session.Process(frame)
	if outcome.Ignored {
		return snapshot
	}

	d.metrics.CounterFrames.Inc()
	if !outcome.Detected {
		d.metrics.CounterFramesNoPose.Inc()
	}

	switch outcome.Step {
	case StepCounted:
		d.metrics.CounterReps.Inc()
		log.Tracef("session [%s] rep counted: %d", snapshot.ID, snapshot.Count)
	case StepRejected:
		d.metrics.CounterRepsRejected.Inc()
		log.Tracef("session [%s] rep rejected, body not aligned", snapshot.ID)
	}

	d.metrics.GaugeRepCount.Set(float64(snapshot.Count))
	d.metrics.GaugeRepRate.Set(snapshot.RatePerMinute)

	return snapshot
}

// publish never blocks: a stale unread snapshot is replaced by the new one.
// Run is the only sender, so the drain-then-send can not race another writer.
func (d *Driver) publish(s Snapshot) {
	select {
	case d.updates <- s:
		return
	default:
	}
	select {
	case <-d.updates:
	default:
	}
	select {
	case d.updates <- s:
	default:
	}
}
