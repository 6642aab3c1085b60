package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"studydesk/backend/internal/middleware"
	"studydesk/backend/internal/realtime"
)

const heartbeatInterval = 25 * time.Second

type SyncHandler struct {
	hub *realtime.Hub
}

func NewSyncHandler(hub *realtime.Hub) *SyncHandler {
	return &SyncHandler{hub: hub}
}

// Events streams sync actions to the client until it disconnects.
func (h *SyncHandler) Events(c *gin.Context) {
	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("ready", gin.H{"client_id": middleware.ClientID(c)})
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(io.Writer) bool {
		select {
		case msg, ok := <-sub.Outbound:
			if !ok {
				return false
			}
			c.SSEvent("sync", msg)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
