package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "studydesk/backend/internal/errors"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/repository"
	"studydesk/backend/internal/srs"
)

type WrongQuestionService struct {
	repo      *repository.WrongQuestionRepository
	scheduler *srs.Scheduler
	now       func() time.Time
}

func NewWrongQuestionService(repo *repository.WrongQuestionRepository, scheduler *srs.Scheduler) *WrongQuestionService {
	return &WrongQuestionService{repo: repo, scheduler: scheduler, now: systemNow}
}

func (s *WrongQuestionService) Create(ctx context.Context, input model.WrongQuestionInput) (*model.WrongQuestion, *apperrors.APIError) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.BadRequest("invalid_subject", "subject is required")
	}
	if strings.TrimSpace(input.QuestionContent) == "" {
		return nil, apperrors.BadRequest("invalid_question_content", "question_content is required")
	}
	difficulty := input.Difficulty
	if difficulty <= 0 {
		difficulty = 1
	}

	now := s.now().UTC()
	q := model.WrongQuestion{
		ID:              uuid.NewString(),
		Subject:         subject,
		Tags:            model.NormalizeTags(input.Tags),
		QuestionContent: input.QuestionContent,
		AISolution:      input.AISolution,
		UserNote:        input.UserNote,
		Difficulty:      difficulty,
		MasteryLevel:    model.MasteryUnknown,
		EaseFactor:      s.scheduler.Params().InitialEase,
		IntervalDays:    1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, &q); err != nil {
		return nil, apperrors.Internal("failed to create wrong question")
	}
	return &q, nil
}

func (s *WrongQuestionService) List(ctx context.Context, filter model.WrongQuestionFilter) ([]model.WrongQuestion, *apperrors.APIError) {
	filter.Subject = strings.TrimSpace(filter.Subject)
	questions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to list wrong questions")
	}
	return questions, nil
}

func (s *WrongQuestionService) Get(ctx context.Context, id string) (*model.WrongQuestion, *apperrors.APIError) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.BadRequest("invalid_wrong_question_id", "wrong question id is required")
	}
	q, err := s.repo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("wrong_question_not_found", "wrong question not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to get wrong question")
	}
	return q, nil
}

func (s *WrongQuestionService) Archive(ctx context.Context, id string) *apperrors.APIError {
	if strings.TrimSpace(id) == "" {
		return apperrors.BadRequest("invalid_wrong_question_id", "wrong question id is required")
	}
	err := s.repo.Archive(ctx, id, s.now().UTC())
	if err == repository.ErrNotFound {
		return apperrors.NotFound("wrong_question_not_found", "wrong question not found")
	}
	if err != nil {
		return apperrors.Internal("failed to archive wrong question")
	}
	return nil
}

// Delete removes the question. Weekly review items referencing it keep their
// snapshot title.
func (s *WrongQuestionService) Delete(ctx context.Context, id string) *apperrors.APIError {
	if strings.TrimSpace(id) == "" {
		return apperrors.BadRequest("invalid_wrong_question_id", "wrong question id is required")
	}
	err := s.repo.Delete(ctx, id)
	if err == repository.ErrNotFound {
		return apperrors.NotFound("wrong_question_not_found", "wrong question not found")
	}
	if err != nil {
		return apperrors.Internal("failed to delete wrong question")
	}
	return nil
}

func (s *WrongQuestionService) Review(ctx context.Context, id string, isCorrect bool) (*model.WrongQuestion, *apperrors.APIError) {
	q, apiErr := s.Get(ctx, id)
	if apiErr != nil {
		return nil, apiErr
	}

	now := s.now()
	next := s.scheduler.Apply(srs.State{
		ReviewCount: q.ReviewCount,
		EaseFactor:  q.EaseFactor,
		Interval:    q.IntervalDays,
	}, isCorrect, now)

	if isCorrect {
		q.MasteryLevel = min(q.MasteryLevel+1, model.MasteryMastered)
	} else {
		q.MasteryLevel = max(q.MasteryLevel-1, model.MasteryUnknown)
	}
	reviewed := today(s.now)
	q.ReviewCount = next.ReviewCount
	q.EaseFactor = next.EaseFactor
	q.IntervalDays = next.Interval
	q.NextReviewDate = &next.NextReview
	q.LastReviewDate = &reviewed
	q.UpdatedAt = now.UTC()

	if err := s.repo.UpdateReview(ctx, q); err != nil {
		return nil, apperrors.Internal("failed to save review")
	}
	return q, nil
}

func (s *WrongQuestionService) Stats(ctx context.Context) (*model.WrongQuestionStats, *apperrors.APIError) {
	active, err := s.repo.List(ctx, model.WrongQuestionFilter{})
	if err != nil {
		return nil, apperrors.Internal("failed to load wrong questions")
	}
	archived, err := s.repo.List(ctx, model.WrongQuestionFilter{Archived: true})
	if err != nil {
		return nil, apperrors.Internal("failed to load wrong questions")
	}

	stats := model.WrongQuestionStats{
		Active:    len(active),
		Archived:  len(archived),
		ByMastery: map[int]int{},
	}
	day := today(s.now)
	for _, q := range active {
		stats.ByMastery[q.MasteryLevel]++
		if q.NextReviewDate == nil || *q.NextReviewDate <= day {
			stats.Due++
		}
	}
	return &stats, nil
}
