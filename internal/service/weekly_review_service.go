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

type WeeklyReviewService struct {
	repo      *repository.WeeklyReviewRepository
	questions *repository.WrongQuestionRepository
	now       func() time.Time
}

func NewWeeklyReviewService(repo *repository.WeeklyReviewRepository, questions *repository.WrongQuestionRepository) *WeeklyReviewService {
	return &WeeklyReviewService{repo: repo, questions: questions, now: systemNow}
}

// List returns the items of the week containing weekStart, which may be any
// day of that week, oldest first with their display titles resolved against
// the live questions.
func (s *WeeklyReviewService) List(ctx context.Context, weekStart string) ([]model.WeeklyReviewItem, *apperrors.APIError) {
	if strings.TrimSpace(weekStart) == "" {
		return nil, apperrors.BadRequest("invalid_week_start", "week_start is required")
	}
	monday, err := week.StartOf(weekStart)
	if err != nil {
		return nil, apperrors.BadRequest("invalid_week_start", err.Error())
	}

	items, err := s.repo.ListByWeek(ctx, monday)
	if err != nil {
		return nil, apperrors.Internal("failed to list weekly review items")
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.WrongQuestionID)
	}
	contents, err := s.questions.ContentByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load wrong questions")
	}

	for i := range items {
		content, ok := contents[items[i].WrongQuestionID]
		if !ok {
			items[i].DisplayTitle = items[i].TitleSnapshot
			items[i].QuestionMissing = true
			continue
		}
		items[i].DisplayTitle = model.SummarizeQuestion(content, model.SnapshotTitleLength)
		if items[i].DisplayTitle == "" {
			items[i].DisplayTitle = items[i].TitleSnapshot
		}
	}
	return items, nil
}

// AddToCurrentWeek schedules a wrong question for this week. A question that
// is already listed returns the existing item.
func (s *WeeklyReviewService) AddToCurrentWeek(ctx context.Context, wrongQuestionID string) (*model.WeeklyReviewItem, *apperrors.APIError) {
	if strings.TrimSpace(wrongQuestionID) == "" {
		return nil, apperrors.BadRequest("invalid_wrong_question_id", "wrong_question_id is required")
	}
	q, err := s.questions.Get(ctx, wrongQuestionID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("wrong_question_not_found", "wrong question not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to get wrong question")
	}

	nowLocal := s.now()
	start := week.FormatDay(week.Start(nowLocal))
	end := week.FormatDay(week.End(nowLocal))

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to start transaction")
	}
	defer tx.Rollback()

	existing, err := s.repo.FindByWeekAndQuestionTx(ctx, tx, start, q.ID)
	if err == nil {
		return existing, nil
	}
	if err != repository.ErrNotFound {
		return nil, apperrors.Internal("failed to read weekly review items")
	}

	now := nowLocal.UTC()
	item := model.WeeklyReviewItem{
		ID:              uuid.NewString(),
		WeekStart:       start,
		WeekEnd:         end,
		WrongQuestionID: q.ID,
		TitleSnapshot:   model.SummarizeQuestion(q.QuestionContent, model.SnapshotTitleLength),
		Status:          model.ReviewItemPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.InsertTx(ctx, tx, &item); err != nil {
		return nil, apperrors.Internal("failed to create weekly review item")
	}
	if commitErr := tx.Commit(); commitErr != nil {
		return nil, apperrors.Internal("failed to commit transaction")
	}
	return &item, nil
}

// ToggleDone marks an item done or back to pending.
func (s *WeeklyReviewService) ToggleDone(ctx context.Context, itemID string, done bool) (*model.WeeklyReviewItem, *apperrors.APIError) {
	if strings.TrimSpace(itemID) == "" {
		return nil, apperrors.BadRequest("invalid_item_id", "item id is required")
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to start transaction")
	}
	defer tx.Rollback()

	item, err := s.repo.GetTx(ctx, tx, itemID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("weekly_review_item_not_found", "weekly review item not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to read weekly review item")
	}

	now := s.now().UTC()
	if done {
		item.Status = model.ReviewItemDone
		item.CompletedAt = &now
	} else {
		item.Status = model.ReviewItemPending
		item.CompletedAt = nil
	}
	item.UpdatedAt = now

	if err := s.repo.UpdateStatusTx(ctx, tx, item); err != nil {
		return nil, apperrors.Internal("failed to update weekly review item")
	}
	if commitErr := tx.Commit(); commitErr != nil {
		return nil, apperrors.Internal("failed to commit transaction")
	}
	return item, nil
}

// CarryToNextWeek copies the pending items of fromWeekStart into the
// following week. Done items, items of other weeks and questions already
// scheduled next week are skipped; originals are left untouched.
func (s *WeeklyReviewService) CarryToNextWeek(ctx context.Context, itemIDs []string, fromWeekStart string) ([]model.WeeklyReviewItem, *apperrors.APIError) {
	if strings.TrimSpace(fromWeekStart) == "" {
		return nil, apperrors.BadRequest("invalid_week_start", "from_week_start is required")
	}
	from, err := week.ParseDay(fromWeekStart)
	if err != nil {
		return nil, apperrors.BadRequest("invalid_week_start", err.Error())
	}
	fromStart := week.FormatDay(week.Start(from))
	next := week.Next(from)
	toStart := week.FormatDay(next)
	toEnd := week.FormatDay(week.End(next))

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to start transaction")
	}
	defer tx.Rollback()

	created := []model.WeeklyReviewItem{}
	seen := map[string]struct{}{}
	for _, id := range itemIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		item, err := s.repo.GetTx(ctx, tx, id)
		if err == repository.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, apperrors.Internal("failed to read weekly review item")
		}
		if item.WeekStart != fromStart || item.Status != model.ReviewItemPending {
			continue
		}

		_, err = s.repo.FindByWeekAndQuestionTx(ctx, tx, toStart, item.WrongQuestionID)
		if err == nil {
			continue
		}
		if err != repository.ErrNotFound {
			return nil, apperrors.Internal("failed to read weekly review items")
		}

		now := s.now().UTC()
		carriedFrom := fromStart
		carried := model.WeeklyReviewItem{
			ID:              uuid.NewString(),
			WeekStart:       toStart,
			WeekEnd:         toEnd,
			WrongQuestionID: item.WrongQuestionID,
			TitleSnapshot:   item.TitleSnapshot,
			Status:          model.ReviewItemPending,
			CarriedFromWeek: &carriedFrom,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repo.InsertTx(ctx, tx, &carried); err != nil {
			return nil, apperrors.Internal("failed to carry weekly review item")
		}
		created = append(created, carried)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return nil, apperrors.Internal("failed to commit transaction")
	}
	return created, nil
}
