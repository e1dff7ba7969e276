package handlers

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/store"
)

const (
	eventBuffer       = 64
	heartbeatInterval = 30 * time.Second
	wsWriteTimeout    = 10 * time.Second
	wsPongTimeout     = 2 * heartbeatInterval
)

// subscribeContext streams the events of one browser context into a buffered
// channel. Bus handlers run on the writer's goroutine, so a full buffer drops
// the event instead of blocking the write.
func (s *Server) subscribeContext(contextID string) (<-chan domain.ContextEvent, func()) {
	ch := make(chan domain.ContextEvent, eventBuffer)
	unsubscribe := s.bus.Subscribe(store.ContextPrefix(contextID), func(_ context.Context, change store.Change) error {
		ev, ok := domain.EventFromChange(change, time.Now())
		if !ok {
			return nil
		}
		select {
		case ch <- ev:
		default:
			logger.Warn("Event stream lagging, event dropped",
				zap.String("context_id", contextID),
				zap.String("type", string(ev.Type)),
			)
		}
		return nil
	})
	return ch, unsubscribe
}

// Events handles GET /events, a server-sent event stream of the changes made
// to the caller's browser context by any tab. Each event is named by its
// type; a ping keeps idle connections open.
func (s *Server) Events(c *gin.Context) {
	contextID := engine(c).ContextID()
	events, unsubscribe := s.subscribeContext(contextID)
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	logger.Debug("Event stream opened", zap.String("context_id", contextID))
	c.SSEvent("connected", gin.H{"context_id": contextID})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
	logger.Debug("Event stream closed", zap.String("context_id", contextID))
}

// WebSocket handles GET /ws, the same stream as Events over a WebSocket.
// Messages from the client are read only to notice pongs and disconnects.
func (s *Server) WebSocket(c *gin.Context) {
	contextID := engine(c).ContextID()
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", zap.String("context_id", contextID), zap.Error(err))
		return
	}
	defer conn.Close()

	events, unsubscribe := s.subscribeContext(contextID)
	defer unsubscribe()

	closed := make(chan struct{})
	_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})
	// Reader pump; gorilla allows one concurrent reader and one writer.
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case ev := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debug("WebSocket write failed", zap.String("context_id", contextID), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}
