package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"senior-house/internal/middleware"
	"senior-house/internal/models"
	"senior-house/internal/observability"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
)

// Handler upgrades /ws requests and runs the per-connection loops.
type Handler struct {
	hub        *Hub
	dispatcher *Dispatcher
	tokens     middleware.TokenParser
	upgrader   websocket.Upgrader
}

// NewHandler constructs a Handler. allowOrigin decides cross-origin upgrades;
// nil accepts every origin.
func NewHandler(hub *Hub, dispatcher *Dispatcher, tokens middleware.TokenParser, allowOrigin func(origin string) bool) *Handler {
	return &Handler{
		hub:        hub,
		dispatcher: dispatcher,
		tokens:     tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin == nil || allowOrigin(origin)
			},
		},
	}
}

func tokenFromRequest(c *gin.Context) string {
	if raw, ok := middleware.BearerToken(c.GetHeader("Authorization")); ok {
		return raw
	}
	return c.Query("token")
}

// Handle authenticates the handshake, registers the client on its personal
// channel and sends "connected".
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("senior-house/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	raw := tokenFromRequest(c)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	claims, err := h.tokens.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      claims.UserID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	client := NewClient(info)
	h.hub.Register(client)
	observability.IncWSActive(wsKind)
	publishLifecycle(ctx, info, "ws_connect", "")

	h.hub.Send(client, models.EventConnected, models.ConnectedPayload{ConnID: info.ConnID, UserID: info.UserID})

	// The handshake span ends with this request; the loops run detached from it.
	loopCtx := observability.WithRequestID(context.Background(), info.RequestID)
	go h.writeLoop(conn, client)
	go h.readLoop(loopCtx, conn, client)
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, client *Client) {
	var closeReason string
	defer func() {
		h.hub.Unregister(client)
		observability.DecWSActive(wsKind)
		publishLifecycle(ctx, client.info, "ws_disconnect", closeReason)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				publishLifecycle(ctx, client.info, "ws_error", closeReason)
			}
			return
		}
		h.dispatcher.Dispatch(ctx, client, raw)
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
