package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studydesk/backend/internal/middleware"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/realtime"
	"studydesk/backend/internal/service"
)

type QuizHandler struct {
	quiz      *service.QuizService
	publisher *realtime.Publisher
}

type answerRequest struct {
	IsCorrect *bool `json:"is_correct"`
}

func NewQuizHandler(quiz *service.QuizService, publisher *realtime.Publisher) *QuizHandler {
	return &QuizHandler{quiz: quiz, publisher: publisher}
}

func (h *QuizHandler) List(c *gin.Context) {
	questions, apiErr := h.quiz.List(c.Request.Context(), c.Query("subject"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *QuizHandler) Create(c *gin.Context) {
	var req model.QuizQuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	question, apiErr := h.quiz.Create(c.Request.Context(), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncQuiz, middleware.ClientID(c))
	c.JSON(http.StatusCreated, gin.H{"question": question})
}

func (h *QuizHandler) Due(c *gin.Context) {
	questions, apiErr := h.quiz.Due(c.Request.Context(), c.Query("subject"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *QuizHandler) Answer(c *gin.Context) {
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

	question, apiErr := h.quiz.Answer(c.Request.Context(), c.Param("id"), *req.IsCorrect)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncQuiz, middleware.ClientID(c))
	c.JSON(http.StatusOK, gin.H{"question": question})
}
