package pushups

import (
	"fmt"
	"sync"
	"time"

	"github.com/2beens/pushupchecker/internal/pose"

	"github.com/google/uuid"
)

const (
	FeedbackWaiting     = "Perform a push-up!"
	FeedbackGoalReached = "Goal Reached! Well Done!"
)

type Status string

const (
	StatusRunning     Status = "running"
	StatusGoalReached Status = "goal_reached"
	StatusStopped     Status = "stopped"
	StatusFailed      Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

// Snapshot is a consistent, read-only copy of the session state, safe to hand to
// another goroutine.
type Snapshot struct {
	ID             uuid.UUID  `json:"id"`
	Goal           int        `json:"goal"`
	Type           PushUpType `json:"type"`
	Count          int        `json:"count"`
	Position       string     `json:"position"`
	Feedback       string     `json:"feedback"`
	RatePerMinute  float64    `json:"rate_per_minute"`
	GoalReached    bool       `json:"goal_reached"`
	Status         Status     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`
	Error          string     `json:"error,omitempty"`
}

func (s Snapshot) Running() bool {
	return s.Status == StatusRunning
}

// StatsLine renders the live stats overlay text.
func (s Snapshot) StatsLine() string {
	if s.Goal > 0 {
		return fmt.Sprintf("Push-ups: %d/%d | Rate: %.1f per min", s.Count, s.Goal, s.RatePerMinute)
	}
	return fmt.Sprintf("Push-ups: %d | Rate: %.1f per min", s.Count, s.RatePerMinute)
}

// FrameOutcome describes what processing a frame did; the driver turns it into metrics.
type FrameOutcome struct {
	Ignored  bool
	Detected bool
	Step     StepResult
}

type SessionParams struct {
	// 0 means no goal, the session runs until stopped
	Goal       int
	Type       PushUpType
	Thresholds Thresholds
	// defaults to time.Now
	Clock func() time.Time
}

// Session owns all mutable state of one workout session. Writes come from the
// frame loop; any goroutine may read through Snapshot.
type Session struct {
	mu sync.RWMutex

	id         uuid.UUID
	goal       int
	pushUpType PushUpType
	thresholds Thresholds
	now        func() time.Time
	startedAt  time.Time

	counter  *Counter
	feedback string
	rate     float64
	status   Status
	err      error
}

func NewSession(params SessionParams) *Session {
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	pushUpType := params.Type
	if !pushUpType.IsValid() {
		pushUpType = PushUpTypeStandard
	}

	return &Session{
		id:         uuid.New(),
		goal:       params.Goal,
		pushUpType: pushUpType,
		thresholds: params.Thresholds,
		now:        clock,
		startedAt:  clock(),
		counter:    NewCounter(params.Thresholds),
		feedback:   FeedbackWaiting,
		status:     StatusRunning,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Process feeds one frame into the rep state machine. Frames arriving after the
// session left the running state are ignored.
func (s *Session) Process(frame pose.Frame) (Snapshot, FrameOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var outcome FrameOutcome
	if s.status != StatusRunning {
		outcome.Ignored = true
		return s.snapshotLocked(), outcome
	}

	s.feedback = FeedbackWaiting
	if m, ok := Measure(frame.Landmarks, s.thresholds.AlignmentTolerance); ok {
		outcome.Detected = true
		outcome.Step = s.counter.Step(m)
		if outcome.Step == StepCounted {
			s.feedback = fmt.Sprintf("Push-ups: %d", s.counter.Count())
		}
	}

	s.rate = 0
	if elapsed := s.now().Sub(s.startedAt); elapsed > 0 {
		s.rate = float64(s.counter.Count()) / elapsed.Minutes()
	}

	if s.goal > 0 && s.counter.Count() >= s.goal {
		s.status = StatusGoalReached
		s.feedback = FeedbackGoalReached
	}

	return s.snapshotLocked(), outcome
}

// Stop ends a running session. It has no effect on a finished one.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusRunning {
		s.status = StatusStopped
	}
}

// Fail marks a running session as failed with err.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusRunning {
		s.status = StatusFailed
		s.err = err
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:             s.id,
		Goal:           s.goal,
		Type:           s.pushUpType,
		Count:          s.counter.Count(),
		Position:       s.counter.Position().String(),
		Feedback:       s.feedback,
		RatePerMinute:  s.rate,
		GoalReached:    s.status == StatusGoalReached,
		Status:         s.status,
		StartedAt:      s.startedAt,
		ElapsedSeconds: s.now().Sub(s.startedAt).Seconds(),
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}
