package config

import (
	"github.com/2beens/pushupchecker/internal/pose"
	"github.com/2beens/pushupchecker/internal/pushups"
	"github.com/2beens/pushupchecker/internal/telemetry/metrics"
)

func (c *Config) Thresholds() pushups.Thresholds {
	return pushups.Thresholds{
		ExtendedAngle:      c.ExtendedAngle,
		FlexedAngle:        c.FlexedAngle,
		AlignmentTolerance: c.AlignmentTolerance,
	}
}

func (c *Config) OpenSourceParams(metricsManager *metrics.Manager) pose.OpenSourceParams {
	return pose.OpenSourceParams{
		Kind: pose.SourceKind(c.PoseSource),
		Resolution: pose.Resolution{
			Width:  c.FrameWidth,
			Height: c.FrameHeight,
		},
		WebsocketURL:   c.PoseWsURL,
		SocketDir:      c.PoseSocketDir,
		SocketFileName: c.PoseSocketFile,
		ReplayPath:     c.PoseReplayPath,
		ReplayFPS:      c.PoseReplayFPS,
		Metrics:        metricsManager,
	}
}
