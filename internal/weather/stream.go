package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/skycastapp/skycast/internal/logging"
)

const (
	// Time allowed to write a message to the relay
	writeWait = 10 * time.Second

	// Time allowed to read the next message from the relay before the
	// connection is considered dead
	pongWait = 60 * time.Second

	// Send pings to the relay with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size accepted from the relay
	maxMessageSize = 8192
)

// StreamUpdate is one live observation pushed by the relay.
type StreamUpdate struct {
	Location Location          `json:"location"`
	Current  CurrentConditions `json:"current"`
}

// subscribeRequest is the first message sent after connecting.
type subscribeRequest struct {
	Action  string `json:"action"`
	Country string `json:"country"`
	State   string `json:"state,omitempty"`
	City    string `json:"city"`
}

// Stream subscribes to live condition updates for a place over a WebSocket
// relay. Updates arrive on the Updates channel until the context is
// cancelled or the relay closes the connection; Err reports why the stream
// ended.
type Stream struct {
	updates chan StreamUpdate
	done    chan struct{}
	err     error
}

// Updates returns the channel live observations are delivered on. The
// channel is closed when the stream ends.
func (s *Stream) Updates() <-chan StreamUpdate {
	return s.updates
}

// Done is closed when the stream has fully shut down.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the terminal error of the stream, nil on clean shutdown.
// Only valid after Done is closed.
func (s *Stream) Err() error {
	return s.err
}

// OpenStream connects to the live-update relay and subscribes to a place.
// relayHost is a bare host ("relay.skycast.dev") or a full ws:// / wss://
// URL, which tests use to point at a local server.
func OpenStream(ctx context.Context, relayHost, country, state, city string) (*Stream, error) {
	relayURL, err := resolveRelayURL(relayHost)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: writeWait}
	conn, _, err := dialer.DialContext(ctx, relayURL, nil)
	if err != nil {
		logging.LogStreamEvent(relayURL, "dial_failed", zap.Error(err))
		return nil, NewNetworkError("failed to connect to live-update relay", err)
	}
	logging.LogStreamEvent(relayURL, "connected")

	conn.SetReadLimit(maxMessageSize)

	sub := subscribeRequest{Action: "subscribe", Country: country, State: state, City: city}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(sub); err != nil {
		_ = conn.Close()
		return nil, NewNetworkError("failed to send subscribe request", err)
	}

	s := &Stream{
		updates: make(chan StreamUpdate, 8),
		done:    make(chan struct{}),
	}

	go s.readLoop(ctx, conn, relayURL)
	go pingLoop(ctx, conn, s.done)

	return s, nil
}

func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn, relayURL string) {
	defer func() {
		_ = conn.Close()
		close(s.updates)
		close(s.done)
		logging.LogStreamEvent(relayURL, "closed", zap.Error(s.err))
	}()

	// Close the connection when the context ends so ReadMessage unblocks.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				// Cancelled by caller, clean shutdown
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			s.err = NewNetworkError("live-update stream read failed", err)
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var update StreamUpdate
		if err := json.Unmarshal(payload, &update); err != nil {
			logging.LogStreamEvent(relayURL, "bad_payload", zap.Error(err))
			continue
		}

		select {
		case s.updates <- update:
		case <-ctx.Done():
			return
		}
	}
}

func pingLoop(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		case <-done:
			return
		}
	}
}

func resolveRelayURL(relayHost string) (string, error) {
	if relayHost == "" {
		return "", fmt.Errorf("relay host not configured")
	}

	if u, err := url.Parse(relayHost); err == nil && (u.Scheme == "ws" || u.Scheme == "wss") {
		return relayHost, nil
	}
	return "wss://" + relayHost + "/v1/live", nil
}
