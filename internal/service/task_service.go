package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "studydesk/backend/internal/errors"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/repository"
	"studydesk/backend/internal/week"
)

type TaskService struct {
	repo *repository.TaskRepository
	now  func() time.Time
}

func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo, now: systemNow}
}

func (s *TaskService) Create(ctx context.Context, input model.Task) (*model.Task, *apperrors.APIError) {
	task := input
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return nil, apperrors.BadRequest("invalid_title", "title is required")
	}
	if task.Status == "" {
		task.Status = model.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Date == "" {
		task.Date = today(s.now)
	}
	if task.StartTime == "" {
		task.StartTime = model.DefaultTaskStartTime
	}
	if task.Duration <= 0 {
		task.Duration = model.DefaultTaskDurationHours
	}
	if task.TimerType == "" {
		task.TimerType = model.TimerTypeNone
	}
	if task.TimerDuration <= 0 {
		task.TimerDuration = model.DefaultTimerMinutes
	}
	task.Tags = model.NormalizeTags(task.Tags)
	if apiErr := validateTask(&task); apiErr != nil {
		return nil, apiErr
	}

	now := s.now().UTC()
	task.ID = uuid.NewString()
	task.CreatedAt = now
	task.UpdatedAt = now
	if err := s.repo.Create(ctx, &task); err != nil {
		return nil, apperrors.Internal("failed to create task")
	}
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, *apperrors.APIError) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.BadRequest("invalid_task_id", "task id is required")
	}
	task, err := s.repo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to get task")
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, date string) ([]model.Task, *apperrors.APIError) {
	if date != "" {
		if _, err := week.ParseDay(date); err != nil {
			return nil, apperrors.BadRequest("invalid_date", err.Error())
		}
	}
	tasks, err := s.repo.List(ctx, date)
	if err != nil {
		return nil, apperrors.Internal("failed to list tasks")
	}
	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, *apperrors.APIError) {
	task, apiErr := s.Get(ctx, id)
	if apiErr != nil {
		return nil, apiErr
	}

	patch.Apply(task)
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return nil, apperrors.BadRequest("invalid_title", "title is required")
	}
	if apiErr := validateTask(task); apiErr != nil {
		return nil, apiErr
	}

	task.UpdatedAt = s.now().UTC()
	err := s.repo.Update(ctx, task)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to update task")
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) *apperrors.APIError {
	if strings.TrimSpace(id) == "" {
		return apperrors.BadRequest("invalid_task_id", "task id is required")
	}
	err := s.repo.Delete(ctx, id)
	if err == repository.ErrNotFound {
		return apperrors.NotFound("task_not_found", "task not found")
	}
	if err != nil {
		return apperrors.Internal("failed to delete task")
	}
	return nil
}

func validateTask(task *model.Task) *apperrors.APIError {
	if !model.IsValidTaskStatus(task.Status) {
		return apperrors.BadRequest("invalid_status", "status must be one of todo, in-progress, done")
	}
	if !model.IsValidPriority(task.Priority) {
		return apperrors.BadRequest("invalid_priority", "priority must be one of low, medium, high")
	}
	if !model.IsValidTaskTimerType(task.TimerType) {
		return apperrors.BadRequest("invalid_timer_type", "timer_type must be one of none, pomodoro, countdown")
	}
	if _, err := week.ParseDay(task.Date); err != nil {
		return apperrors.BadRequest("invalid_date", err.Error())
	}
	if _, err := time.Parse("15:04", task.StartTime); err != nil {
		return apperrors.BadRequest("invalid_start_time", "start_time must be HH:MM")
	}
	return nil
}
