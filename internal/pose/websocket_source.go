package pose

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	wsHandshakeTimeout = 10 * time.Second
	wsWriteTimeout     = 5 * time.Second
)

// WebsocketSource reads frames from a pose estimation service that pushes one
// JSON frame per websocket message.
type WebsocketSource struct {
	conn *websocket.Conn
	res  Resolution

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func DialWebsocketSource(ctx context.Context, url string, res Resolution) (*WebsocketSource, error) {
	if url == "" {
		return nil, errors.New("pose websocket url not configured")
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = wsHandshakeTimeout

	log.Debugf("connecting to pose service at %s", url)
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	s := &WebsocketSource{
		conn: conn,
		res:  res,
		done: make(chan struct{}),
	}

	conn.SetPingHandler(func(appData string) error {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(wsWriteTimeout))
		if err != nil {
			log.Errorf("pose websocket, send pong: %s", err)
		}
		return nil
	})

	return s, nil
}

func (s *WebsocketSource) Next(ctx context.Context) (Frame, error) {
	// ReadMessage has no ctx, so a done ctx expires the read deadline instead
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Frame{}, ctxErr
			}
			select {
			case <-s.done:
				return Frame{}, ErrSourceClosed
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return Frame{}, fmt.Errorf("%w: %s", ErrProducerDisconnected, err)
			}
			return Frame{}, fmt.Errorf("read pose frame: %w", err)
		}

		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		frame, err := DecodeFrame(data, s.res)
		if err != nil {
			log.Warnf("pose websocket, dropping frame: %s", err)
			continue
		}
		return frame, nil
	}
}

func (s *WebsocketSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)

		s.writeMu.Lock()
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(wsWriteTimeout),
		)
		s.writeMu.Unlock()

		err = s.conn.Close()
	})
	return err
}
