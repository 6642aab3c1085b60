package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studydesk/backend/internal/service"
)

type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Weekly(c *gin.Context) {
	result, apiErr := h.stats.Weekly(c.Request.Context(), c.Query("end_date"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": result})
}
