package wled

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muldoon/wledctl/internal/logging"
)

// Controllers with many segments push state documents a few KB in size.
// Anything past this limit is not a WLED state update.
const watchReadLimit = 256 << 10

// Watch connects to the controller's /ws endpoint and invokes fn for every
// state document the controller pushes. WLED sends the full current state on
// connect and again whenever state changes, from any source (this tool, the
// web UI, a wall switch).
//
// Watch blocks until ctx is cancelled, the controller closes the connection,
// or the connection fails. Cancellation returns ctx.Err(); a clean remote
// close returns nil.
func (t *Transport) Watch(ctx context.Context, ep Endpoint, fn func(Document)) error {
	u := url.URL{Scheme: "ws", Host: ep.String(), Path: "/ws"}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return NewHTTPError(resp.StatusCode, "websocket upgrade refused")
		}
		return classifyWithAddr(err, ep)
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(watchReadLimit)

	logging.Debug("websocket watch started", zap.String("device", ep.String()))

	// Unblock the read loop when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return NewNetworkError("websocket read failed", err)
		}

		if msgType != websocket.TextMessage {
			// WLED also serves binary peek frames for live LED previews;
			// state updates are always text JSON.
			continue
		}

		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			logging.Warn("discarding malformed websocket payload",
				zap.String("device", ep.String()),
				zap.Error(err),
			)
			continue
		}

		fn(doc)
	}
}
