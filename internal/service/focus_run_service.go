package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "studydesk/backend/internal/errors"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/repository"
	"studydesk/backend/internal/stats"
	"studydesk/backend/internal/week"
)

const defaultRunSource = "focus"

type FocusRunService struct {
	repo      *repository.FocusRunRepository
	templates *repository.FocusTemplateRepository
	now       func() time.Time
}

func NewFocusRunService(repo *repository.FocusRunRepository, templates *repository.FocusTemplateRepository) *FocusRunService {
	return &FocusRunService{repo: repo, templates: templates, now: systemNow}
}

// Start records a running focus run for clientID. Any other run the client
// still has running is aborted first. A payload carrying the id of one of the
// client's existing runs returns that row unchanged; an id owned by another
// client is a conflict.
func (s *FocusRunService) Start(ctx context.Context, clientID string, payload model.StartFocusRunPayload) (*model.FocusRun, *apperrors.APIError) {
	if payload.PlannedMinutes <= 0 {
		return nil, apperrors.BadRequest("invalid_planned_minutes", "planned_minutes must be positive")
	}
	if !model.IsValidFocusTimerType(payload.TimerType) {
		return nil, apperrors.BadRequest("invalid_timer_type", "timer_type must be one of pomodoro, countdown")
	}
	if payload.Date != "" {
		if _, err := week.ParseDay(payload.Date); err != nil {
			return nil, apperrors.BadRequest("invalid_date", err.Error())
		}
	}

	now := s.now().UTC()
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to start transaction")
	}
	defer tx.Rollback()

	if id := strings.TrimSpace(payload.ID); id != "" {
		existing, err := s.repo.GetTx(ctx, tx, id)
		if err == nil {
			if existing.ClientID != clientID {
				return nil, apperrors.Conflict("focus_run_id_taken", "focus run id belongs to another client", nil)
			}
			return existing, nil
		}
		if err != repository.ErrNotFound {
			return nil, apperrors.Internal("failed to read focus run")
		}
	}

	running, err := s.repo.ListRunningByClientTx(ctx, tx, clientID)
	if err != nil {
		return nil, apperrors.Internal("failed to read running focus runs")
	}
	for i := range running {
		prev := running[i]
		elapsed := int(now.Sub(prev.StartedAt).Seconds())
		if apiErr := s.finishRun(ctx, tx, &prev, model.RunStatusAborted, max(elapsed, 0), now); apiErr != nil {
			return nil, apiErr
		}
	}

	startedAt := now
	if payload.StartedAt != nil {
		startedAt = payload.StartedAt.UTC()
	}
	date := payload.Date
	if date == "" {
		date = week.Today(startedAt)
	}
	source := strings.TrimSpace(payload.Source)
	if source == "" {
		source = defaultRunSource
	}
	id := strings.TrimSpace(payload.ID)
	if id == "" {
		id = uuid.NewString()
	}

	run := model.FocusRun{
		ID:             id,
		ClientID:       clientID,
		Source:         source,
		TemplateID:     payload.TemplateID,
		TaskID:         payload.TaskID,
		TimerType:      payload.TimerType,
		PlannedMinutes: payload.PlannedMinutes,
		Status:         model.RunStatusRunning,
		StartedAt:      startedAt,
		Date:           date,
		Tags:           model.NormalizeTags(payload.Tags),
		Note:           payload.Note,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.InsertTx(ctx, tx, &run); err != nil {
		return nil, apperrors.Internal("failed to create focus run")
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return nil, apperrors.Internal("failed to commit transaction")
	}
	return &run, nil
}

// Finish moves one of clientID's running runs to a terminal status. Finishing
// a run that is already terminal returns the stored row without writing. Runs
// of other clients are reported as not found.
func (s *FocusRunService) Finish(ctx context.Context, clientID, id string, payload model.FinishFocusRunPayload) (*model.FocusRun, *apperrors.APIError) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.BadRequest("invalid_run_id", "run id is required")
	}
	if payload.Status != model.RunStatusCompleted && payload.Status != model.RunStatusAborted {
		return nil, apperrors.BadRequest("invalid_status", "status must be one of completed, aborted")
	}

	now := s.now().UTC()
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to start transaction")
	}
	defer tx.Rollback()

	run, err := s.repo.GetTx(ctx, tx, id)
	if err == repository.ErrNotFound || (err == nil && run.ClientID != clientID) {
		return nil, apperrors.NotFound("focus_run_not_found", "focus run not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to read focus run")
	}
	if run.Status != model.RunStatusRunning {
		return run, nil
	}

	if payload.Tags != nil {
		run.Tags = model.NormalizeTags(payload.Tags)
	}
	if payload.Note != nil {
		run.Note = payload.Note
	}
	endedAt := now
	if payload.EndedAt != nil {
		endedAt = payload.EndedAt.UTC()
	}
	if apiErr := s.finishRun(ctx, tx, run, payload.Status, payload.ActualSeconds, endedAt); apiErr != nil {
		return nil, apiErr
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return nil, apperrors.Internal("failed to commit transaction")
	}
	return run, nil
}

func (s *FocusRunService) List(ctx context.Context, q model.FocusRunQuery) ([]model.FocusRun, *apperrors.APIError) {
	for _, raw := range []string{q.StartDate, q.EndDate} {
		if raw == "" {
			continue
		}
		if _, err := week.ParseDay(raw); err != nil {
			return nil, apperrors.BadRequest("invalid_date", err.Error())
		}
	}
	if q.Status != "" && q.Status != model.RunStatusRunning && q.Status != model.RunStatusCompleted && q.Status != model.RunStatusAborted {
		return nil, apperrors.BadRequest("invalid_status", "status must be one of running, completed, aborted")
	}

	runs, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperrors.Internal("failed to list focus runs")
	}
	return runs, nil
}

// Stats aggregates the runs of a date range. It never writes.
func (s *FocusRunService) Stats(ctx context.Context, q model.FocusStatsQuery) (*model.FocusStatsResult, *apperrors.APIError) {
	start, end, apiErr := resolveRange(q.StartDate, q.EndDate, s.now())
	if apiErr != nil {
		return nil, apiErr
	}

	var runs []model.FocusRun
	var names map[string]string
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		runs, err = s.repo.List(groupCtx, model.FocusRunQuery{StartDate: start, EndDate: end})
		return err
	})
	group.Go(func() error {
		var err error
		names, err = s.templates.Names(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, apperrors.Internal("failed to load focus stats")
	}

	result := stats.Summarize(runs, names, start, end, q.Dimension)
	return &result, nil
}

func (s *FocusRunService) finishRun(
	ctx context.Context,
	tx *sql.Tx,
	run *model.FocusRun,
	status string,
	actualSeconds int,
	endedAt time.Time,
) *apperrors.APIError {
	if run.Status != model.RunStatusRunning {
		return nil
	}

	run.Status = status
	run.ActualSeconds = max(actualSeconds, 0)
	run.EndedAt = &endedAt
	run.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateTx(ctx, tx, run); err != nil {
		return apperrors.Internal("failed to update focus run")
	}
	return nil
}
