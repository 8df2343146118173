package pushups

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidGoal       = errors.New("invalid push-up goal")
	ErrInvalidPushUpType = errors.New("invalid push-up type")
)

// PushUpType is a label chosen at session start. It does not change detection.
type PushUpType string

const (
	PushUpTypeStandard PushUpType = "Standard"
	PushUpTypeDiamond  PushUpType = "Diamond"
	PushUpTypeWideArm  PushUpType = "Wide-arm"
)

var PushUpTypes = []PushUpType{
	PushUpTypeStandard,
	PushUpTypeDiamond,
	PushUpTypeWideArm,
}

func (pt PushUpType) String() string {
	return string(pt)
}

func (pt PushUpType) IsValid() bool {
	switch pt {
	case PushUpTypeStandard,
		PushUpTypeDiamond,
		PushUpTypeWideArm:
		return true
	default:
		return false
	}
}

// ParsePushUpType matches case-insensitively; an empty input means Standard.
func ParsePushUpType(s string) (PushUpType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PushUpTypeStandard, nil
	}
	for _, pt := range PushUpTypes {
		if strings.EqualFold(s, pt.String()) {
			return pt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPushUpType, s)
}

// ParseGoal parses the goal as entered by the user. Only positive integers are accepted.
func ParseGoal(s string) (int, error) {
	goal, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidGoal, s)
	}
	if goal <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %d", ErrInvalidGoal, goal)
	}
	return goal, nil
}
