package pose

//go:generate mockgen -source=source.go -destination=source_mock.go -package=pose

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/pushupchecker/internal/telemetry/metrics"
)

var ErrSourceClosed = errors.New("pose source closed")

// Source delivers landmark frames in capture order. Next blocks until a frame is
// available, the source fails, or ctx is done. The owner must call Close exactly once.
type Source interface {
	Next(ctx context.Context) (Frame, error)
	Close() error
}

type SourceKind string

const (
	SourceKindWebsocket SourceKind = "websocket"
	SourceKindUnix      SourceKind = "unix"
	SourceKindReplay    SourceKind = "replay"
)

func (k SourceKind) String() string {
	return string(k)
}

func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindWebsocket,
		SourceKindUnix,
		SourceKindReplay:
		return true
	default:
		return false
	}
}

type OpenSourceParams struct {
	Kind       SourceKind
	Resolution Resolution

	// websocket
	WebsocketURL string

	// unix socket
	SocketDir      string
	SocketFileName string

	// replay
	ReplayPath string
	ReplayFPS  int

	Metrics *metrics.Manager
}

// Open builds the source selected by params.Kind.
func Open(ctx context.Context, params OpenSourceParams) (Source, error) {
	res := params.Resolution
	if res.Width <= 0 || res.Height <= 0 {
		res = DefaultResolution
	}

	switch params.Kind {
	case SourceKindWebsocket:
		return DialWebsocketSource(ctx, params.WebsocketURL, res)
	case SourceKindUnix:
		return ListenUnixSocketSource(params.SocketDir, params.SocketFileName, res, params.Metrics)
	case SourceKindReplay:
		var interval time.Duration
		if params.ReplayFPS > 0 {
			interval = time.Second / time.Duration(params.ReplayFPS)
		}
		return OpenReplaySource(params.ReplayPath, res, interval)
	default:
		return nil, fmt.Errorf("unknown pose source kind: %s", params.Kind)
	}
}
