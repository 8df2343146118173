package pushups

import (
	"errors"
	"fmt"
)

var ErrInvalidThresholds = errors.New("invalid rep thresholds")

// Position of the rep state machine. PositionUp is entered on the frame that counts a
// rep; only a new extended-arms frame (PositionDown) re-arms the counter.
type Position string

const (
	PositionUnset Position = ""
	PositionDown  Position = "down"
	PositionUp    Position = "up"
)

func (p Position) String() string {
	if p == PositionUnset {
		return "unset"
	}
	return string(p)
}

type Thresholds struct {
	// both arms above this angle set the down position
	ExtendedAngle float64
	// both arms below this angle, coming from down, count a rep
	FlexedAngle        float64
	AlignmentTolerance float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ExtendedAngle:      160,
		FlexedAngle:        50,
		AlignmentTolerance: DefaultAlignmentTolerance,
	}
}

func (t Thresholds) Validate() error {
	if t.FlexedAngle <= 0 || t.ExtendedAngle > 180 || t.FlexedAngle >= t.ExtendedAngle {
		return fmt.Errorf("%w: flexed %.1f / extended %.1f", ErrInvalidThresholds, t.FlexedAngle, t.ExtendedAngle)
	}
	if t.AlignmentTolerance <= 0 {
		return fmt.Errorf("%w: alignment tolerance %.1f", ErrInvalidThresholds, t.AlignmentTolerance)
	}
	return nil
}

// StepResult tells the caller what a single Step did.
type StepResult int

const (
	StepNoChange StepResult = iota
	StepArmed
	StepCounted
	// arms were flexed from down but the body was not aligned
	StepRejected
)

// Counter is the down/up rep state machine. The two thresholds form a hysteresis
// band: jitter around either angle can not count a rep twice.
type Counter struct {
	thresholds Thresholds
	position   Position
	count      int
}

func NewCounter(thresholds Thresholds) *Counter {
	return &Counter{thresholds: thresholds}
}

func (c *Counter) Position() Position {
	return c.position
}

func (c *Counter) Count() int {
	return c.count
}

func (c *Counter) Step(m Measurement) StepResult {
	t := c.thresholds
	switch {
	case m.LeftArmAngle > t.ExtendedAngle && m.RightArmAngle > t.ExtendedAngle:
		if c.position == PositionDown {
			return StepNoChange
		}
		c.position = PositionDown
		return StepArmed
	case m.LeftArmAngle < t.FlexedAngle && m.RightArmAngle < t.FlexedAngle && c.position == PositionDown:
		if !m.Aligned {
			return StepRejected
		}
		c.position = PositionUp
		c.count++
		return StepCounted
	default:
		return StepNoChange
	}
}
