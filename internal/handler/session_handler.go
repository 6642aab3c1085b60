package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studydesk/backend/internal/service"
)

type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Open(c *gin.Context) {
	session, apiErr := h.sessions.Open()
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, session)
}
