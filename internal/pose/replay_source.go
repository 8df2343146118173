package pose

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ReplaySource plays back frames recorded as JSON lines, one frame per line.
// It returns io.EOF once the recording is exhausted.
type ReplaySource struct {
	mu       sync.Mutex
	closer   io.Closer
	scanner  *bufio.Scanner
	res      Resolution
	interval time.Duration
	lastSent time.Time
	closed   bool
}

func OpenReplaySource(path string, res Resolution, interval time.Duration) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	return NewReplaySource(f, res, interval), nil
}

// NewReplaySource reads frames from r. If r is an io.Closer it is closed with the source.
// A non-zero interval paces the frames, imitating a live camera.
func NewReplaySource(r io.Reader, res Resolution, interval time.Duration) *ReplaySource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	s := &ReplaySource{
		scanner:  scanner,
		res:      res,
		interval: interval,
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *ReplaySource) Next(ctx context.Context) (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Frame{}, ErrSourceClosed
	}

	if err := s.pace(ctx); err != nil {
		return Frame{}, err
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		frame, err := DecodeFrame(line, s.res)
		if err != nil {
			return Frame{}, err
		}
		s.lastSent = time.Now()
		return frame, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Frame{}, fmt.Errorf("read replay: %w", err)
	}
	return Frame{}, io.EOF
}

func (s *ReplaySource) pace(ctx context.Context) error {
	if s.interval <= 0 || s.lastSent.IsZero() {
		return ctx.Err()
	}
	wait := s.interval - time.Since(s.lastSent)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *ReplaySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
