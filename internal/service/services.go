package service

import (
	"database/sql"

	"studydesk/backend/internal/repository"
	"studydesk/backend/internal/srs"
)

// Services bundles the domain services that share one database.
type Services struct {
	Tasks          *TaskService
	FocusRuns      *FocusRunService
	FocusTemplates *FocusTemplateService
	Quiz           *QuizService
	WrongQuestions *WrongQuestionService
	WeeklyReview   *WeeklyReviewService
	Stats          *StatsService
}

func New(database *sql.DB, scheduler *srs.Scheduler) *Services {
	taskRepo := repository.NewTaskRepository(database)
	runRepo := repository.NewFocusRunRepository(database)
	templateRepo := repository.NewFocusTemplateRepository(database)
	quizRepo := repository.NewQuizRepository(database)
	wrongRepo := repository.NewWrongQuestionRepository(database)
	weeklyRepo := repository.NewWeeklyReviewRepository(database)

	return &Services{
		Tasks:          NewTaskService(taskRepo),
		FocusRuns:      NewFocusRunService(runRepo, templateRepo),
		FocusTemplates: NewFocusTemplateService(templateRepo),
		Quiz:           NewQuizService(quizRepo, scheduler),
		WrongQuestions: NewWrongQuestionService(wrongRepo, scheduler),
		WeeklyReview:   NewWeeklyReviewService(weeklyRepo, wrongRepo),
		Stats:          NewStatsService(taskRepo, runRepo),
	}
}
