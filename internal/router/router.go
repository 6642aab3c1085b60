package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"studydesk/backend/internal/handler"
	"studydesk/backend/internal/logger"
	"studydesk/backend/internal/middleware"
	"studydesk/backend/internal/realtime"
	"studydesk/backend/internal/service"
)

const serviceName = "studydesk-server"

type Deps struct {
	Services    *service.Services
	Sessions    *service.SessionService
	Hub         *realtime.Hub
	Publisher   *realtime.Publisher
	Log         *logger.Logger
	CORSOrigins []string
}

func New(deps Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(log),
		otelgin.Middleware(serviceName),
		middleware.RequestLogger(log),
		corsMiddleware(deps.CORSOrigins),
	)

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	engine.GET("/health", health)

	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	taskHandler := handler.NewTaskHandler(deps.Services.Tasks, deps.Publisher)
	focusHandler := handler.NewFocusHandler(deps.Services.FocusRuns, deps.Services.FocusTemplates, deps.Publisher)
	statsHandler := handler.NewStatsHandler(deps.Services.Stats)
	quizHandler := handler.NewQuizHandler(deps.Services.Quiz, deps.Publisher)
	wrongHandler := handler.NewWrongQuestionHandler(deps.Services.WrongQuestions, deps.Publisher)
	reviewHandler := handler.NewWeeklyReviewHandler(deps.Services.WeeklyReview, deps.Publisher)
	syncHandler := handler.NewSyncHandler(deps.Hub)

	api := engine.Group("/api")
	api.GET("/ping", health)
	api.POST("/sessions", sessionHandler.Open)

	protected := api.Group("")
	protected.Use(middleware.ClientSession(deps.Sessions))

	tasks := protected.Group("/tasks")
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	focus := protected.Group("/focus")
	focus.GET("/templates", focusHandler.ListTemplates)
	focus.POST("/templates", focusHandler.CreateTemplate)
	focus.GET("/templates/:id", focusHandler.GetTemplate)
	focus.POST("/templates/:id/archive", focusHandler.ArchiveTemplate)
	focus.POST("/runs/start", focusHandler.StartRun)
	focus.POST("/runs/:id/finish", focusHandler.FinishRun)
	focus.GET("/runs", focusHandler.ListRuns)
	focus.GET("/stats", focusHandler.Stats)

	protected.GET("/stats/weekly", statsHandler.Weekly)

	quiz := protected.Group("/quiz")
	quiz.GET("", quizHandler.List)
	quiz.POST("", quizHandler.Create)
	quiz.GET("/due", quizHandler.Due)
	quiz.POST("/:id/answer", quizHandler.Answer)

	wrong := protected.Group("/wrong-questions")
	wrong.GET("", wrongHandler.List)
	wrong.POST("", wrongHandler.Create)
	wrong.GET("/stats", wrongHandler.Stats)
	wrong.GET("/:id", wrongHandler.Get)
	wrong.DELETE("/:id", wrongHandler.Delete)
	wrong.POST("/:id/archive", wrongHandler.Archive)
	wrong.POST("/:id/review", wrongHandler.Review)

	review := protected.Group("/weekly-review")
	review.GET("/items", reviewHandler.List)
	review.POST("/items", reviewHandler.Add)
	review.POST("/items/:id/toggle", reviewHandler.Toggle)
	review.POST("/carry", reviewHandler.Carry)

	protected.GET("/sync/events", syncHandler.Events)

	return engine
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       24 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
