package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listNotifications(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			limit = parsed
		}
	}
	inbox, err := h.Notifications.List(c.Request.Context(), actor(c), limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"notifications": inbox.Notifications, "unreadCount": inbox.UnreadCount})
}

func (h *Handler) readNotification(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.Notifications.MarkRead(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "notification marked read"})
}

func (h *Handler) readAllNotifications(c *gin.Context) {
	if err := h.Notifications.MarkAllRead(c.Request.Context(), actor(c)); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "all notifications marked read"})
}

func (h *Handler) deleteNotification(c *gin.Context) {
	id, valid := objectID(c, "id")
	if !valid {
		return
	}
	if err := h.Notifications.Delete(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "notification deleted"})
}
