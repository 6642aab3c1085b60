package gateway

import (
	"context"

	apperrors "studydesk/backend/internal/errors"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/service"
)

// DefaultClientID scopes focus runs started through a local gateway.
const DefaultClientID = "local"

// Local serves the gateway from the domain services of an opened database.
type Local struct {
	services *service.Services
	clientID string
}

func NewLocal(services *service.Services, clientID string) *Local {
	if clientID == "" {
		clientID = DefaultClientID
	}
	return &Local{services: services, clientID: clientID}
}

// asError keeps a nil *APIError from turning into a non-nil error.
func asError(apiErr *apperrors.APIError) error {
	if apiErr == nil {
		return nil
	}
	return apiErr
}

func (g *Local) CreateTask(ctx context.Context, task model.Task) (*model.Task, error) {
	created, apiErr := g.services.Tasks.Create(ctx, task)
	return created, asError(apiErr)
}

func (g *Local) ListTasks(ctx context.Context, date string) ([]model.Task, error) {
	tasks, apiErr := g.services.Tasks.List(ctx, date)
	return tasks, asError(apiErr)
}

func (g *Local) GetTask(ctx context.Context, id string) (*model.Task, error) {
	task, apiErr := g.services.Tasks.Get(ctx, id)
	return task, asError(apiErr)
}

func (g *Local) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	task, apiErr := g.services.Tasks.Update(ctx, id, patch)
	return task, asError(apiErr)
}

func (g *Local) CreateFocusRun(ctx context.Context, payload model.StartFocusRunPayload) (*model.FocusRun, error) {
	run, apiErr := g.services.FocusRuns.Start(ctx, g.clientID, payload)
	return run, asError(apiErr)
}

func (g *Local) FinishFocusRun(ctx context.Context, id string, payload model.FinishFocusRunPayload) (*model.FocusRun, error) {
	run, apiErr := g.services.FocusRuns.Finish(ctx, g.clientID, id, payload)
	return run, asError(apiErr)
}

func (g *Local) ListFocusRuns(ctx context.Context, q model.FocusRunQuery) ([]model.FocusRun, error) {
	runs, apiErr := g.services.FocusRuns.List(ctx, q)
	return runs, asError(apiErr)
}

func (g *Local) GetFocusStats(ctx context.Context, q model.FocusStatsQuery) (*model.FocusStatsResult, error) {
	result, apiErr := g.services.FocusRuns.Stats(ctx, q)
	return result, asError(apiErr)
}

func (g *Local) ListFocusTemplates(ctx context.Context, includeArchived bool) ([]model.FocusTemplate, error) {
	templates, apiErr := g.services.FocusTemplates.List(ctx, includeArchived)
	return templates, asError(apiErr)
}

func (g *Local) GetFocusTemplate(ctx context.Context, id string) (*model.FocusTemplate, error) {
	template, apiErr := g.services.FocusTemplates.Get(ctx, id)
	return template, asError(apiErr)
}

func (g *Local) CreateFocusTemplate(ctx context.Context, input model.FocusTemplateInput) (*model.FocusTemplate, error) {
	template, apiErr := g.services.FocusTemplates.Create(ctx, input)
	return template, asError(apiErr)
}

func (g *Local) ArchiveFocusTemplate(ctx context.Context, id string) error {
	return asError(g.services.FocusTemplates.Archive(ctx, id))
}

func (g *Local) CreateQuestion(ctx context.Context, input model.QuizQuestionInput) (*model.QuizQuestion, error) {
	question, apiErr := g.services.Quiz.Create(ctx, input)
	return question, asError(apiErr)
}

func (g *Local) GetDueQuestions(ctx context.Context, subject string) ([]model.QuizQuestion, error) {
	questions, apiErr := g.services.Quiz.Due(ctx, subject)
	return questions, asError(apiErr)
}

func (g *Local) AnswerQuestion(ctx context.Context, id string, isCorrect bool) (*model.QuizQuestion, error) {
	question, apiErr := g.services.Quiz.Answer(ctx, id, isCorrect)
	return question, asError(apiErr)
}

func (g *Local) CreateWrongQuestion(ctx context.Context, input model.WrongQuestionInput) (*model.WrongQuestion, error) {
	question, apiErr := g.services.WrongQuestions.Create(ctx, input)
	return question, asError(apiErr)
}

func (g *Local) ListWrongQuestions(ctx context.Context, filter model.WrongQuestionFilter) ([]model.WrongQuestion, error) {
	questions, apiErr := g.services.WrongQuestions.List(ctx, filter)
	return questions, asError(apiErr)
}

func (g *Local) ArchiveWrongQuestion(ctx context.Context, id string) error {
	return asError(g.services.WrongQuestions.Archive(ctx, id))
}

func (g *Local) DeleteWrongQuestion(ctx context.Context, id string) error {
	return asError(g.services.WrongQuestions.Delete(ctx, id))
}

func (g *Local) GetWeeklyReviewItems(ctx context.Context, weekStart string) ([]model.WeeklyReviewItem, error) {
	items, apiErr := g.services.WeeklyReview.List(ctx, weekStart)
	return items, asError(apiErr)
}

func (g *Local) AddWeeklyReviewItem(ctx context.Context, wrongQuestionID string) (*model.WeeklyReviewItem, error) {
	item, apiErr := g.services.WeeklyReview.AddToCurrentWeek(ctx, wrongQuestionID)
	return item, asError(apiErr)
}

func (g *Local) ToggleWeeklyReviewItemDone(ctx context.Context, itemID string, done bool) (*model.WeeklyReviewItem, error) {
	item, apiErr := g.services.WeeklyReview.ToggleDone(ctx, itemID, done)
	return item, asError(apiErr)
}

func (g *Local) CarryWeeklyReviewItemsToNextWeek(ctx context.Context, itemIDs []string, fromWeekStart string) ([]model.WeeklyReviewItem, error) {
	items, apiErr := g.services.WeeklyReview.CarryToNextWeek(ctx, itemIDs, fromWeekStart)
	return items, asError(apiErr)
}
