package pushups

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGoal(t *testing.T) {
	valid := map[string]int{
		"1":    1,
		"10":   10,
		" 25 ": 25,
	}
	for input, want := range valid {
		got, err := ParseGoal(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	for _, input := range []string{"", "abc", "0", "-3", "2.5", "10 reps"} {
		_, err := ParseGoal(input)
		assert.ErrorIs(t, err, ErrInvalidGoal, input)
	}
}

func TestParsePushUpType(t *testing.T) {
	tests := []struct {
		input string
		want  PushUpType
	}{
		{"", PushUpTypeStandard},
		{"Standard", PushUpTypeStandard},
		{"diamond", PushUpTypeDiamond},
		{"WIDE-ARM", PushUpTypeWideArm},
		{" Wide-arm ", PushUpTypeWideArm},
	}
	for _, tt := range tests {
		got, err := ParsePushUpType(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
		assert.True(t, got.IsValid())
	}

	_, err := ParsePushUpType("archer")
	assert.ErrorIs(t, err, ErrInvalidPushUpType)
	assert.False(t, PushUpType("archer").IsValid())
}
