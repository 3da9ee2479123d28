package api

import (
	"net/http"
	"time"

	xlogger "PriceCast/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	progressWriteWait   = 10 * time.Second
	progressPingPeriod  = 30 * time.Second
	progressIdleTimeout = 75 * time.Second
)

// Progress streams per-epoch training events over a websocket. The
// subscription is per connection; a slow reader only loses its own oldest
// buffered events, never anyone else's.
func (h *ForecastHandler) Progress(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	id, events := h.pipeline.Hub().Subscribe()
	defer h.pipeline.Hub().Unsubscribe(id)

	// Reader loop only services control frames and detects a closed peer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(progressIdleTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(progressIdleTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(progressPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(progressWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("progress stream closed", xlogger.Error(err))
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(progressWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-done:
			return nil
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
