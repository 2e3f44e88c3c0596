package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"senior-house/internal/telemetry"
)

// Presence reports live websocket connections.
type Presence interface {
	Online(userID int) int
	RoomSize(roomID int) int
}

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, presence Presence, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		emitter.Record(c.Request.Context(), telemetry.AuditRecord{
			Level:  telemetry.LevelInfo,
			Action: "debug.audit_test",
			Text:   "audit test",
			UserID: c.GetInt("userID"),
		})
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/debug/ws/users/:user_id", func(c *gin.Context) {
		userID, ok := pathInt(c, "user_id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "connections": presence.Online(userID)})
	})

	router.GET("/debug/ws/rooms/:room_id", func(c *gin.Context) {
		roomID, ok := pathInt(c, "room_id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"room_id": roomID, "connections": presence.RoomSize(roomID)})
	})
}
