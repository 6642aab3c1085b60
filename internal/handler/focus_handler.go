package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studydesk/backend/internal/middleware"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/realtime"
	"studydesk/backend/internal/service"
)

type FocusHandler struct {
	runs      *service.FocusRunService
	templates *service.FocusTemplateService
	publisher *realtime.Publisher
}

func NewFocusHandler(runs *service.FocusRunService, templates *service.FocusTemplateService, publisher *realtime.Publisher) *FocusHandler {
	return &FocusHandler{runs: runs, templates: templates, publisher: publisher}
}

func (h *FocusHandler) ListTemplates(c *gin.Context) {
	templates, apiErr := h.templates.List(c.Request.Context(), queryBool(c, "include_archived"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *FocusHandler) CreateTemplate(c *gin.Context) {
	var req model.FocusTemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	template, apiErr := h.templates.Create(c.Request.Context(), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncFocusTemplates, middleware.ClientID(c))
	c.JSON(http.StatusCreated, gin.H{"template": template})
}

func (h *FocusHandler) GetTemplate(c *gin.Context) {
	template, apiErr := h.templates.Get(c.Request.Context(), c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": template})
}

func (h *FocusHandler) ArchiveTemplate(c *gin.Context) {
	if apiErr := h.templates.Archive(c.Request.Context(), c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncFocusTemplates, middleware.ClientID(c))
	c.Status(http.StatusNoContent)
}

func (h *FocusHandler) StartRun(c *gin.Context) {
	var req model.StartFocusRunPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	clientID := middleware.ClientID(c)
	run, apiErr := h.runs.Start(c.Request.Context(), clientID, req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncFocusRuns, clientID)
	c.JSON(http.StatusOK, gin.H{"run": run})
}

func (h *FocusHandler) FinishRun(c *gin.Context) {
	var req model.FinishFocusRunPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	run, apiErr := h.runs.Finish(c.Request.Context(), middleware.ClientID(c), c.Param("id"), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncFocusRuns, middleware.ClientID(c))
	c.JSON(http.StatusOK, gin.H{"run": run})
}

func (h *FocusHandler) ListRuns(c *gin.Context) {
	runs, apiErr := h.runs.List(c.Request.Context(), model.FocusRunQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Status:    c.Query("status"),
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *FocusHandler) Stats(c *gin.Context) {
	result, apiErr := h.runs.Stats(c.Request.Context(), model.FocusStatsQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Dimension: c.Query("dimension"),
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": result})
}
