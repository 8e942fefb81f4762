package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"eventhub/internal/event"
	"eventhub/internal/server/http/dto"
	"eventhub/internal/server/http/resp"
	"eventhub/internal/server/hub"
	"eventhub/internal/transport"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Push channels are same-app; cross-origin checks live at the gateway.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ChannelWS upgrades to a WebSocket push channel. The first frame must be
// an identify event; frames for that user then stream until either side
// closes.
func (h *Handler) ChannelWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.ConnectTimeout))
	var first transport.Frame
	if err := conn.ReadJSON(&first); err != nil {
		h.log.Warn("websocket identify read failed", zap.Error(err))
		return
	}
	if first.Event != string(event.KindIdentify) {
		h.log.Warn("websocket first frame is not identify", zap.String("event", first.Event))
		return
	}
	identity, err := event.DecodeIdentify(first.Data)
	if err != nil {
		h.log.Warn("websocket identify invalid", zap.Error(err))
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	client := &hub.Client{
		UserID: identity.UserID,
		Ch:     make(chan transport.Frame, h.cfg.ChannelBuffer),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	h.log.Info("websocket channel open", zap.String("user_id", identity.UserID))

	// Reader drains re-identifies and surfaces the peer close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var frame transport.Frame
			if err := conn.ReadJSON(&frame); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-done:
			return
		case frame := <-client.Ch:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(frame); err != nil {
				h.log.Warn("websocket write failed", zap.String("user_id", identity.UserID), zap.Error(err))
				return
			}
		}
	}
}

// ChannelSSE streams push frames as server-sent events. SSE is one-way, so
// the user id rides on the path and the identify frame arrives separately
// via ChannelEvent.
func (h *Handler) ChannelSSE(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "userId required"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported", zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	flusher.Flush()

	client := &hub.Client{
		UserID: userID,
		Ch:     make(chan transport.Frame, h.cfg.ChannelBuffer),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	h.log.Info("sse channel open", zap.String("user_id", userID))

	heartbeat := time.NewTicker(h.cfg.SSEHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Warn("heartbeat write failed", zap.String("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		case frame, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeFrame(c.Writer, frame); err != nil {
				h.log.Warn("sse write failed", zap.String("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

// ChannelEvent accepts the client-to-server leg of an SSE channel. Identify
// is the only event that flows upstream.
func (h *Handler) ChannelEvent(c *gin.Context) {
	kind := event.Kind(c.Param("event"))
	if kind != event.KindIdentify {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "unsupported channel event"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid body"})
		return
	}
	identity, err := event.DecodeIdentify(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "identify requires userId"})
		return
	}

	h.log.Info("channel identified", zap.String("user_id", identity.UserID))
	c.Status(http.StatusNoContent)
}

// writeFrame emits one SSE frame:
// - id: server-assigned frame id
// - event: the push event kind (JS uses addEventListener(kind, ...))
// - data: JSON payload
func writeFrame(w http.ResponseWriter, frame transport.Frame) error {
	_, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", uuid.NewString(), frame.Event, frame.Data)
	return err
}
