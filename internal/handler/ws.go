package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced at the HTTP layer; the handshake itself carries the
	// JWT, so cross-origin upgrades are acceptable here.
	CheckOrigin: func(*http.Request) bool { return true },
}

// serveWS authenticates the handshake with the same JWT as the REST routes,
// taken from the `token` query parameter or the bearer header, and hands
// the connection to the hub.
func (h *Handler) serveWS(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		if bearer, err := auth.BearerToken(c.GetHeader("Authorization")); err == nil {
			tokenStr = bearer
		}
	}
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing token"})
		return
	}

	usr, err := h.Auth.UserFromToken(c.Request.Context(), tokenStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed for %s: %v", usr.ID.Hex(), err)
		return
	}
	h.Hub.ServeConn(conn, usr.ID.Hex())
}
