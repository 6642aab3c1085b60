package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studydesk/backend/internal/middleware"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/realtime"
	"studydesk/backend/internal/service"
)

type TaskHandler struct {
	tasks     *service.TaskService
	publisher *realtime.Publisher
}

func NewTaskHandler(tasks *service.TaskService, publisher *realtime.Publisher) *TaskHandler {
	return &TaskHandler{tasks: tasks, publisher: publisher}
}

func (h *TaskHandler) List(c *gin.Context) {
	tasks, apiErr := h.tasks.List(c.Request.Context(), c.Query("date"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req model.Task
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	task, apiErr := h.tasks.Create(c.Request.Context(), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncTasks, middleware.ClientID(c))
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskHandler) Get(c *gin.Context) {
	task, apiErr := h.tasks.Get(c.Request.Context(), c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) Update(c *gin.Context) {
	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeInvalidJSON(c)
		return
	}

	task, apiErr := h.tasks.Update(c.Request.Context(), c.Param("id"), patch)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncTasks, middleware.ClientID(c))
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if apiErr := h.tasks.Delete(c.Request.Context(), c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncTasks, middleware.ClientID(c))
	c.Status(http.StatusNoContent)
}
