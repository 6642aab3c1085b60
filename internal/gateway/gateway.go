// Package gateway defines the persistence operations the study clients use and
// a local implementation that calls the domain services in-process. The lan
// subpackage provides the same operations over the LAN HTTP API.
package gateway

import (
	"context"

	"studydesk/backend/internal/focus"
	"studydesk/backend/internal/model"
)

type TaskStore interface {
	CreateTask(ctx context.Context, task model.Task) (*model.Task, error)
	ListTasks(ctx context.Context, date string) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
}

type FocusStore interface {
	CreateFocusRun(ctx context.Context, payload model.StartFocusRunPayload) (*model.FocusRun, error)
	FinishFocusRun(ctx context.Context, id string, payload model.FinishFocusRunPayload) (*model.FocusRun, error)
	ListFocusRuns(ctx context.Context, q model.FocusRunQuery) ([]model.FocusRun, error)
	GetFocusStats(ctx context.Context, q model.FocusStatsQuery) (*model.FocusStatsResult, error)
}

type QuizStore interface {
	CreateQuestion(ctx context.Context, input model.QuizQuestionInput) (*model.QuizQuestion, error)
	GetDueQuestions(ctx context.Context, subject string) ([]model.QuizQuestion, error)
	AnswerQuestion(ctx context.Context, id string, isCorrect bool) (*model.QuizQuestion, error)
}

type WrongQuestionStore interface {
	CreateWrongQuestion(ctx context.Context, input model.WrongQuestionInput) (*model.WrongQuestion, error)
	ListWrongQuestions(ctx context.Context, filter model.WrongQuestionFilter) ([]model.WrongQuestion, error)
	ArchiveWrongQuestion(ctx context.Context, id string) error
	DeleteWrongQuestion(ctx context.Context, id string) error
}

type WeeklyReviewStore interface {
	GetWeeklyReviewItems(ctx context.Context, weekStart string) ([]model.WeeklyReviewItem, error)
	AddWeeklyReviewItem(ctx context.Context, wrongQuestionID string) (*model.WeeklyReviewItem, error)
	ToggleWeeklyReviewItemDone(ctx context.Context, itemID string, done bool) (*model.WeeklyReviewItem, error)
	CarryWeeklyReviewItemsToNextWeek(ctx context.Context, itemIDs []string, fromWeekStart string) ([]model.WeeklyReviewItem, error)
}

// Gateway is the full persistence surface. Errors reported by either
// implementation are *errors.APIError values where the backend produced one.
type Gateway interface {
	TaskStore
	FocusStore
	focus.TemplateStore
	QuizStore
	WrongQuestionStore
	WeeklyReviewStore
}

var (
	_ Gateway     = (*Local)(nil)
	_ focus.Store = (*Local)(nil)
)
