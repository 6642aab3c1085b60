package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studydesk/backend/internal/middleware"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/realtime"
	"studydesk/backend/internal/service"
)

type WrongQuestionHandler struct {
	questions *service.WrongQuestionService
	publisher *realtime.Publisher
}

func NewWrongQuestionHandler(questions *service.WrongQuestionService, publisher *realtime.Publisher) *WrongQuestionHandler {
	return &WrongQuestionHandler{questions: questions, publisher: publisher}
}

func (h *WrongQuestionHandler) List(c *gin.Context) {
	questions, apiErr := h.questions.List(c.Request.Context(), model.WrongQuestionFilter{
		Archived: queryBool(c, "archived"),
		Subject:  c.Query("subject"),
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wrong_questions": questions})
}

func (h *WrongQuestionHandler) Create(c *gin.Context) {
	var req model.WrongQuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	question, apiErr := h.questions.Create(c.Request.Context(), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncWrongQuestions, middleware.ClientID(c))
	c.JSON(http.StatusCreated, gin.H{"wrong_question": question})
}

func (h *WrongQuestionHandler) Stats(c *gin.Context) {
	stats, apiErr := h.questions.Stats(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *WrongQuestionHandler) Get(c *gin.Context) {
	question, apiErr := h.questions.Get(c.Request.Context(), c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wrong_question": question})
}

func (h *WrongQuestionHandler) Archive(c *gin.Context) {
	if apiErr := h.questions.Archive(c.Request.Context(), c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncWrongQuestions, middleware.ClientID(c))
	c.Status(http.StatusNoContent)
}

func (h *WrongQuestionHandler) Delete(c *gin.Context) {
	if apiErr := h.questions.Delete(c.Request.Context(), c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncWrongQuestions, middleware.ClientID(c))
	c.Status(http.StatusNoContent)
}

func (h *WrongQuestionHandler) Review(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.IsCorrect == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_is_correct", "message": "is_correct is required"},
		})
		return
	}

	question, apiErr := h.questions.Review(c.Request.Context(), c.Param("id"), *req.IsCorrect)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncWrongQuestions, middleware.ClientID(c))
	c.JSON(http.StatusOK, gin.H{"wrong_question": question})
}
