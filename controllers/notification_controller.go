package controllers

import (
	"net/http"

	"olilab/app"
	"olilab/inventory"
	"olilab/models"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ *Srv }

func NewNotificationController(s *Srv) *NotificationController {
	return &NotificationController{Srv: s}
}

// GET /api/notifications?unread=1
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	onlyUnread := c.Query("unread") == "1"
	st := nc.Engine.Snapshot()
	out := make([]models.Notification, 0, len(st.Notifications))
	unread := 0
	for _, n := range st.Notifications {
		if !n.Read {
			unread++
		} else if onlyUnread {
			continue
		}
		out = append(out, n)
	}
	c.JSON(http.StatusOK, app.H{"notifications": out, "unread": unread})
}

// POST /api/notifications/read {ids:[...]}
func (nc *NotificationController) MarkRead(c *gin.Context) {
	var in struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if _, ok := nc.exec(c, inventory.MarkNotificationsRead{Actor: actorID(c), IDs: in.IDs}); !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
