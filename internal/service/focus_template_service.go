package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "studydesk/backend/internal/errors"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/repository"
)

type FocusTemplateService struct {
	repo *repository.FocusTemplateRepository
	now  func() time.Time
}

func NewFocusTemplateService(repo *repository.FocusTemplateRepository) *FocusTemplateService {
	return &FocusTemplateService{repo: repo, now: systemNow}
}

func (s *FocusTemplateService) Create(ctx context.Context, input model.FocusTemplateInput) (*model.FocusTemplate, *apperrors.APIError) {
	in := input.Normalize()
	if !model.IsValidFocusTimerType(in.TimerType) {
		return nil, apperrors.BadRequest("invalid_timer_type", "timer_type must be one of pomodoro, countdown")
	}

	now := s.now().UTC()
	tpl := model.FocusTemplate{
		ID:              uuid.NewString(),
		Name:            in.Name,
		TimerType:       in.TimerType,
		DurationMinutes: in.DurationMinutes,
		Tags:            in.Tags,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.LinkedTaskTitle != "" {
		tpl.LinkedTaskTitle = &in.LinkedTaskTitle
	}
	if in.ColorToken != "" {
		tpl.ColorToken = &in.ColorToken
	}

	if err := s.repo.Create(ctx, &tpl); err != nil {
		return nil, apperrors.Internal("failed to create focus template")
	}
	return &tpl, nil
}

func (s *FocusTemplateService) List(ctx context.Context, includeArchived bool) ([]model.FocusTemplate, *apperrors.APIError) {
	templates, err := s.repo.List(ctx, includeArchived)
	if err != nil {
		return nil, apperrors.Internal("failed to list focus templates")
	}
	return templates, nil
}

// Get resolves archived templates too, so historical runs keep their names.
func (s *FocusTemplateService) Get(ctx context.Context, id string) (*model.FocusTemplate, *apperrors.APIError) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.BadRequest("invalid_template_id", "template id is required")
	}
	tpl, err := s.repo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("focus_template_not_found", "focus template not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to get focus template")
	}
	return tpl, nil
}

func (s *FocusTemplateService) Archive(ctx context.Context, id string) *apperrors.APIError {
	if strings.TrimSpace(id) == "" {
		return apperrors.BadRequest("invalid_template_id", "template id is required")
	}
	err := s.repo.Archive(ctx, id, s.now().UTC())
	if err == repository.ErrNotFound {
		return apperrors.NotFound("focus_template_not_found", "focus template not found")
	}
	if err != nil {
		return apperrors.Internal("failed to archive focus template")
	}
	return nil
}
