package pose

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/2beens/pushupchecker/internal/telemetry/metrics"
	"github.com/2beens/pushupchecker/pkg"

	log "github.com/sirupsen/logrus"
)

var ErrProducerDisconnected = errors.New("pose producer disconnected")

// UnixSocketSource listens on a UNIX socket for a local pose process (e.g. the camera +
// MediaPipe script) that writes newline-delimited JSON frames. Only one producer may be
// connected at a time; when it disconnects the stream ends.
type UnixSocketSource struct {
	listener net.Listener
	res      Resolution
	metrics  *metrics.Manager

	frames chan Frame
	errs   chan error
	done   chan struct{}

	mu        sync.Mutex
	producer  net.Conn
	closeOnce sync.Once
}

func ListenUnixSocketSource(
	socketAddrDir, socketFileName string,
	res Resolution,
	metricsManager *metrics.Manager,
) (*UnixSocketSource, error) {
	if err := pkg.EnsureDir(socketAddrDir); err != nil {
		return nil, fmt.Errorf("create pose socket dir: %w", err)
	}

	socket := filepath.Join(socketAddrDir, socketFileName)
	// stale socket from a previous run
	if exists, _ := pkg.PathExists(socket, false); exists {
		if err := os.Remove(socket); err != nil {
			return nil, fmt.Errorf("remove stale pose socket: %w", err)
		}
	}

	listener, err := net.Listen("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("binding to unix socket %s: %w", socket, err)
	}

	if err := os.Chmod(socket, os.ModeSocket|0666); err != nil {
		_ = listener.Close()
		return nil, err
	}

	s := &UnixSocketSource{
		listener: listener,
		res:      res,
		metrics:  metricsManager,
		frames:   make(chan Frame),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	go s.acceptLoop()

	log.Debugf("pose unix socket source listening on: %s", socket)
	return s, nil
}

func (s *UnixSocketSource) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *UnixSocketSource) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
			default:
				log.Errorf("pose unix socket listener conn accept: %s", err)
				s.fail(fmt.Errorf("accept pose producer: %w", err))
			}
			return
		}

		s.mu.Lock()
		if s.producer != nil {
			s.mu.Unlock()
			log.Warnf("pose unix socket already has a producer, rejecting: %s", conn.RemoteAddr())
			_, _ = conn.Write([]byte("busy\n"))
			_ = conn.Close()
			continue
		}
		s.producer = conn
		s.mu.Unlock()

		log.Debugf("pose unix socket got new producer: %s", conn.RemoteAddr())
		go s.readFrames(conn)
	}
}

func (s *UnixSocketSource) readFrames(conn net.Conn) {
	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		s.producer = nil
		s.mu.Unlock()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		frame, err := DecodeFrame(line, s.res)
		if err != nil {
			log.Warnf("pose unix socket, dropping frame: %s", err)
			if s.metrics != nil {
				s.metrics.CounterInvalidFrames.Inc()
			}
			continue
		}

		select {
		case s.frames <- frame:
		case <-s.done:
			return
		}
	}

	select {
	case <-s.done:
		return
	default:
	}

	err := scanner.Err()
	if err == nil {
		err = ErrProducerDisconnected
	}
	s.fail(err)
}

func (s *UnixSocketSource) fail(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

func (s *UnixSocketSource) Next(ctx context.Context) (Frame, error) {
	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case <-s.done:
		return Frame{}, ErrSourceClosed
	case frame := <-s.frames:
		return frame, nil
	case err := <-s.errs:
		return Frame{}, err
	}
}

func (s *UnixSocketSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.listener.Close()

		s.mu.Lock()
		if s.producer != nil {
			_ = s.producer.Close()
		}
		s.mu.Unlock()
	})
	return err
}
