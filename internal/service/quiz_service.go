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

type QuizService struct {
	repo      *repository.QuizRepository
	scheduler *srs.Scheduler
	now       func() time.Time
}

func NewQuizService(repo *repository.QuizRepository, scheduler *srs.Scheduler) *QuizService {
	return &QuizService{repo: repo, scheduler: scheduler, now: systemNow}
}

func (s *QuizService) Create(ctx context.Context, input model.QuizQuestionInput) (*model.QuizQuestion, *apperrors.APIError) {
	q := model.QuizQuestion{
		Subject:     strings.TrimSpace(input.Subject),
		Type:        strings.TrimSpace(input.Type),
		Stem:        strings.TrimSpace(input.Stem),
		Options:     input.Options,
		Answer:      strings.ToUpper(strings.TrimSpace(input.Answer)),
		Explanation: input.Explanation,
		Difficulty:  input.Difficulty,
		EaseFactor:  s.scheduler.Params().InitialEase,
	}
	if q.Type == "" {
		q.Type = model.QuestionTypeChoice
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	if q.Difficulty <= 0 {
		q.Difficulty = 1
	}
	if q.Subject == "" {
		return nil, apperrors.BadRequest("invalid_subject", "subject is required")
	}
	if q.Stem == "" {
		return nil, apperrors.BadRequest("invalid_stem", "stem is required")
	}
	if q.Type == model.QuestionTypeChoice {
		if len(q.Options) != model.ChoiceOptionCount {
			return nil, apperrors.BadRequest("invalid_options", "choice questions need exactly 4 options")
		}
		if len(q.Answer) != 1 || q.Answer[0] < 'A' || q.Answer[0] > 'D' {
			return nil, apperrors.BadRequest("invalid_answer", "choice answer must be one of A, B, C, D")
		}
	} else if q.Answer == "" {
		return nil, apperrors.BadRequest("invalid_answer", "answer is required")
	}

	q.ID = uuid.NewString()
	q.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, &q); err != nil {
		return nil, apperrors.Internal("failed to create quiz question")
	}
	return &q, nil
}

func (s *QuizService) List(ctx context.Context, subject string) ([]model.QuizQuestion, *apperrors.APIError) {
	questions, err := s.repo.List(ctx, strings.TrimSpace(subject))
	if err != nil {
		return nil, apperrors.Internal("failed to list quiz questions")
	}
	return questions, nil
}

// Due returns choice questions never reviewed or due today or earlier.
func (s *QuizService) Due(ctx context.Context, subject string) ([]model.QuizQuestion, *apperrors.APIError) {
	questions, err := s.repo.Due(ctx, today(s.now), strings.TrimSpace(subject))
	if err != nil {
		return nil, apperrors.Internal("failed to list due questions")
	}
	return questions, nil
}

// Answer records one answer and reschedules the question.
func (s *QuizService) Answer(ctx context.Context, id string, isCorrect bool) (*model.QuizQuestion, *apperrors.APIError) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.BadRequest("invalid_question_id", "question id is required")
	}
	q, err := s.repo.Get(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("question_not_found", "quiz question not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to get quiz question")
	}

	next := s.scheduler.Apply(srs.State{
		ReviewCount:  q.ReviewCount,
		CorrectCount: q.CorrectCnt,
		EaseFactor:   q.EaseFactor,
		Interval:     q.Interval,
	}, isCorrect, s.now())

	q.ReviewCount = next.ReviewCount
	q.CorrectCnt = next.CorrectCount
	q.EaseFactor = next.EaseFactor
	q.Interval = next.Interval
	q.NextReview = &next.NextReview

	if err := s.repo.UpdateSchedule(ctx, q); err != nil {
		return nil, apperrors.Internal("failed to save answer")
	}
	return q, nil
}
