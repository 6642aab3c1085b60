package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studydesk/backend/internal/model"
)

type WrongQuestionRepository struct {
	db *sql.DB
}

func NewWrongQuestionRepository(db *sql.DB) *WrongQuestionRepository {
	return &WrongQuestionRepository{db: db}
}

const wrongQuestionColumns = `id, subject, tags, question_content, ai_solution, user_note, difficulty,
		        mastery_level, review_count, ease_factor, interval_days, next_review_date,
		        last_review_date, is_archived, created_at, updated_at`

func (r *WrongQuestionRepository) Create(ctx context.Context, q *model.WrongQuestion) error {
	tags, err := encodeList(q.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO wrong_questions (
			id, subject, tags, question_content, ai_solution, user_note, difficulty,
			mastery_level, review_count, ease_factor, interval_days, next_review_date,
			last_review_date, is_archived, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID,
		q.Subject,
		tags,
		q.QuestionContent,
		q.AISolution,
		q.UserNote,
		q.Difficulty,
		q.MasteryLevel,
		q.ReviewCount,
		q.EaseFactor,
		q.IntervalDays,
		nullableString(q.NextReviewDate),
		nullableString(q.LastReviewDate),
		boolToInt(q.IsArchived),
		formatTime(q.CreatedAt),
		formatTime(q.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create wrong question: %w", err)
	}
	return nil
}

func (r *WrongQuestionRepository) Get(ctx context.Context, id string) (*model.WrongQuestion, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+wrongQuestionColumns+` FROM wrong_questions WHERE id = ?`, id)
	return scanWrongQuestion(row)
}

func (r *WrongQuestionRepository) List(ctx context.Context, filter model.WrongQuestionFilter) ([]model.WrongQuestion, error) {
	query := `SELECT ` + wrongQuestionColumns + ` FROM wrong_questions WHERE is_archived = ?`
	args := []interface{}{boolToInt(filter.Archived)}
	if filter.Subject != "" {
		query += ` AND subject = ?`
		args = append(args, filter.Subject)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list wrong questions: %w", err)
	}
	defer rows.Close()

	questions := []model.WrongQuestion{}
	for rows.Next() {
		q, scanErr := scanWrongQuestion(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wrong questions: %w", err)
	}
	return questions, nil
}

// ContentByIDs returns question_content keyed by id for the ids that exist.
func (r *WrongQuestionRepository) ContentByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	contents := map[string]string{}
	if len(ids) == 0 {
		return contents, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, question_content FROM wrong_questions WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("load wrong question contents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, content string
		if err := rows.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("scan wrong question content: %w", err)
		}
		contents[id] = content
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wrong question contents: %w", err)
	}
	return contents, nil
}

func (r *WrongQuestionRepository) Archive(ctx context.Context, id string, now time.Time) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE wrong_questions SET is_archived = 1, updated_at = ? WHERE id = ?`,
		formatTime(now),
		id,
	)
	if err != nil {
		return fmt.Errorf("archive wrong question: %w", err)
	}
	return requireAffected(result, "archive wrong question")
}

func (r *WrongQuestionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wrong_questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete wrong question: %w", err)
	}
	return requireAffected(result, "delete wrong question")
}

func (r *WrongQuestionRepository) UpdateReview(ctx context.Context, q *model.WrongQuestion) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE wrong_questions
		 SET mastery_level = ?,
		     review_count = ?,
		     ease_factor = ?,
		     interval_days = ?,
		     next_review_date = ?,
		     last_review_date = ?,
		     updated_at = ?
		 WHERE id = ?`,
		q.MasteryLevel,
		q.ReviewCount,
		q.EaseFactor,
		q.IntervalDays,
		nullableString(q.NextReviewDate),
		nullableString(q.LastReviewDate),
		formatTime(q.UpdatedAt),
		q.ID,
	)
	if err != nil {
		return fmt.Errorf("update wrong question review: %w", err)
	}
	return requireAffected(result, "update wrong question review")
}

func scanWrongQuestion(s scanner) (*model.WrongQuestion, error) {
	q := model.WrongQuestion{}
	var tags string
	var nextReview sql.NullString
	var lastReview sql.NullString
	var archived int
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&q.ID,
		&q.Subject,
		&tags,
		&q.QuestionContent,
		&q.AISolution,
		&q.UserNote,
		&q.Difficulty,
		&q.MasteryLevel,
		&q.ReviewCount,
		&q.EaseFactor,
		&q.IntervalDays,
		&nextReview,
		&lastReview,
		&archived,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan wrong question: %w", err)
	}

	q.NextReviewDate = stringPtr(nextReview)
	q.LastReviewDate = stringPtr(lastReview)
	q.IsArchived = archived != 0
	if q.Tags, err = decodeList(tags); err != nil {
		return nil, fmt.Errorf("parse wrong question tags: %w", err)
	}
	if q.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse wrong question created_at: %w", err)
	}
	if q.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse wrong question updated_at: %w", err)
	}
	return &q, nil
}
