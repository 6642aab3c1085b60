package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studydesk/backend/internal/middleware"
	"studydesk/backend/internal/realtime"
	"studydesk/backend/internal/service"
)

type WeeklyReviewHandler struct {
	review    *service.WeeklyReviewService
	publisher *realtime.Publisher
}

type addReviewItemRequest struct {
	WrongQuestionID string `json:"wrong_question_id"`
}

type toggleReviewItemRequest struct {
	Done *bool `json:"done"`
}

type carryRequest struct {
	ItemIDs       []string `json:"item_ids"`
	FromWeekStart string   `json:"from_week_start"`
}

func NewWeeklyReviewHandler(review *service.WeeklyReviewService, publisher *realtime.Publisher) *WeeklyReviewHandler {
	return &WeeklyReviewHandler{review: review, publisher: publisher}
}

func (h *WeeklyReviewHandler) List(c *gin.Context) {
	items, apiErr := h.review.List(c.Request.Context(), c.Query("week_start"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *WeeklyReviewHandler) Add(c *gin.Context) {
	var req addReviewItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	item, apiErr := h.review.AddToCurrentWeek(c.Request.Context(), req.WrongQuestionID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncWeeklyReviewItems, middleware.ClientID(c))
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *WeeklyReviewHandler) Toggle(c *gin.Context) {
	var req toggleReviewItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.Done == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_done", "message": "done is required"},
		})
		return
	}

	item, apiErr := h.review.ToggleDone(c.Request.Context(), c.Param("id"), *req.Done)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	h.publisher.Publish(c.Request.Context(), realtime.ActionSyncWeeklyReviewItems, middleware.ClientID(c))
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *WeeklyReviewHandler) Carry(c *gin.Context) {
	var req carryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	items, apiErr := h.review.CarryToNextWeek(c.Request.Context(), req.ItemIDs, req.FromWeekStart)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if len(items) > 0 {
		h.publisher.Publish(c.Request.Context(), realtime.ActionSyncWeeklyReviewItems, middleware.ClientID(c))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
