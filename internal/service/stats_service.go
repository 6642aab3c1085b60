package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "studydesk/backend/internal/errors"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/repository"
	"studydesk/backend/internal/stats"
)

// StatsService builds the weekly overview: focus minutes, task completion
// and how tasks spread over subjects.
type StatsService struct {
	tasks *repository.TaskRepository
	runs  *repository.FocusRunRepository
	now   func() time.Time
}

func NewStatsService(tasks *repository.TaskRepository, runs *repository.FocusRunRepository) *StatsService {
	return &StatsService{tasks: tasks, runs: runs, now: systemNow}
}

func (s *StatsService) Weekly(ctx context.Context, endDate string) (*model.WeeklyStats, *apperrors.APIError) {
	start, end, apiErr := resolveRange("", endDate, s.now())
	if apiErr != nil {
		return nil, apiErr
	}

	var tasks []model.Task
	var runs []model.FocusRun
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		tasks, err = s.tasks.ListRange(groupCtx, start, end)
		return err
	})
	group.Go(func() error {
		var err error
		runs, err = s.runs.List(groupCtx, model.FocusRunQuery{StartDate: start, EndDate: end})
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, apperrors.Internal("failed to load weekly stats")
	}

	result := model.WeeklyStats{
		StartDate:           start,
		EndDate:             end,
		SubjectDistribution: map[string]float64{},
	}

	var seconds int64
	for _, run := range runs {
		if stats.Counted(run) {
			seconds += int64(run.ActualSeconds)
		}
	}
	result.TotalFocusMinutes = seconds / 60

	if len(tasks) == 0 {
		return &result, nil
	}
	done := 0
	subjects := map[string]int{}
	for _, task := range tasks {
		if task.Status == model.TaskStatusDone {
			done++
		}
		for _, tag := range task.Tags {
			subjects[tag]++
		}
	}
	total := float64(len(tasks))
	result.CompletionRate = float64(done) / total * 100
	for subject, count := range subjects {
		result.SubjectDistribution[subject] = float64(count) / total * 100
	}
	return &result, nil
}
