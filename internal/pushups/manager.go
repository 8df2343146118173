package pushups

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/2beens/pushupchecker/internal/pose"
	"github.com/2beens/pushupchecker/internal/telemetry/metrics"
	"github.com/2beens/pushupchecker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrSessionRunning = errors.New("a session is already running")
	ErrNoSession      = errors.New("no session")
)

// SourceOpener opens the pose source for a new session.
type SourceOpener func(ctx context.Context) (pose.Source, error)

type StartParams struct {
	// 0 means no goal
	Goal int
	Type PushUpType
}

// Manager runs at most one session at a time in the background.
type Manager struct {
	ctx        context.Context
	openSource SourceOpener
	thresholds Thresholds
	metrics    *metrics.Manager

	mu      sync.Mutex
	session *Session
	driver  *Driver
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewManager creates a manager whose sessions live at most as long as ctx.
func NewManager(
	ctx context.Context,
	openSource SourceOpener,
	thresholds Thresholds,
	metricsManager *metrics.Manager,
) *Manager {
	return &Manager{
		ctx:        ctx,
		openSource: openSource,
		thresholds: thresholds,
		metrics:    metricsManager,
	}
}

func (m *Manager) Start(params StartParams) (_ Snapshot, err error) {
	_, span := tracing.GlobalTracer.Start(m.ctx, "pushups.manager.start")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if params.Goal < 0 {
		return Snapshot{}, fmt.Errorf("%w: must not be negative", ErrInvalidGoal)
	}
	if params.Type == "" {
		params.Type = PushUpTypeStandard
	}
	if !params.Type.IsValid() {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidPushUpType, params.Type)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.runningLocked() {
		return Snapshot{}, ErrSessionRunning
	}

	source, err := m.openSource(m.ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open pose source: %w", err)
	}

	session := NewSession(SessionParams{
		Goal:       params.Goal,
		Type:       params.Type,
		Thresholds: m.thresholds,
	})
	span.SetAttributes(
		attribute.String("session.id", session.ID().String()),
		attribute.Int("session.goal", params.Goal),
		attribute.String("session.type", params.Type.String()),
	)

	if m.cancel != nil {
		// previous session already finished on its own
		m.cancel()
	}

	ctx, cancel := context.WithCancel(m.ctx)
	driver := NewDriver(source, session, m.metrics)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := driver.Run(ctx); err != nil {
			log.Errorf("session [%s]: %s", session.ID(), err)
		}
	}()

	m.session = session
	m.driver = driver
	m.cancel = cancel
	m.done = done

	log.Infof("session [%s] started: goal [%d], type [%s]", session.ID(), params.Goal, params.Type)
	return session.Snapshot(), nil
}

// Stop cancels the running session and waits for its frame loop to exit.
// Stopping a finished session just returns its final snapshot.
func (m *Manager) Stop() (Snapshot, error) {
	_, span := tracing.GlobalTracer.Start(m.ctx, "pushups.manager.stop")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return Snapshot{}, ErrNoSession
	}

	m.cancel()
	<-m.done

	snapshot := m.session.Snapshot()
	span.SetAttributes(
		attribute.String("session.id", snapshot.ID.String()),
		attribute.Int("session.count", snapshot.Count),
	)
	log.Infof("session [%s] stopped: status [%s], count [%d]", snapshot.ID, snapshot.Status, snapshot.Count)
	return snapshot, nil
}

// Current returns the snapshot of the latest session, running or not.
func (m *Manager) Current() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return Snapshot{}, false
	}
	return m.session.Snapshot(), true
}

// Updates returns the update stream of the latest session, nil if none was started.
func (m *Manager) Updates() <-chan Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver == nil {
		return nil
	}
	return m.driver.Updates()
}

// Done is closed when the frame loop of the latest session exits.
func (m *Manager) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

func (m *Manager) runningLocked() bool {
	if m.done == nil {
		return false
	}
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}
