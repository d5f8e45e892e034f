// internal/handlers/websocket/ws_handler.go
package websocket

import (
	"net/http"

	"khidma-service/internal/pkg/response"
	ws "khidma-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced at the edge proxy
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWSHandler(hub *ws.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// AdminFeed handles GET /admin/feed. The browser WebSocket API cannot set
// headers, so the token rides on the query string for this endpoint only.
func (h *WSHandler) AdminFeed(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Unauthorized(c, "Missing token")
		return
	}

	claims, err := h.hub.Authenticate(c.Request.Context(), token)
	if err != nil {
		response.Unauthorized(c, "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, claims.IdentityID, claims.ID)
	client.Start()
}
