package repository

import (
	"context"
	"database/sql"
	"fmt"

	"studydesk/backend/internal/model"
)

type QuizRepository struct {
	db *sql.DB
}

func NewQuizRepository(db *sql.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

const quizColumns = `id, subject, type, stem, options, answer, explanation, difficulty,
		        review_count, correct_count, ease_factor, interval, next_review, created_at`

func (r *QuizRepository) Create(ctx context.Context, q *model.QuizQuestion) error {
	options, err := encodeList(q.Options)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO quiz_questions (
			id, subject, type, stem, options, answer, explanation, difficulty,
			review_count, correct_count, ease_factor, interval, next_review, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID,
		q.Subject,
		q.Type,
		q.Stem,
		options,
		q.Answer,
		q.Explanation,
		q.Difficulty,
		q.ReviewCount,
		q.CorrectCnt,
		q.EaseFactor,
		q.Interval,
		nullableString(q.NextReview),
		formatTime(q.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create quiz question: %w", err)
	}
	return nil
}

func (r *QuizRepository) Get(ctx context.Context, id string) (*model.QuizQuestion, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quiz_questions WHERE id = ?`, id)
	return scanQuizQuestion(row)
}

func (r *QuizRepository) List(ctx context.Context, subject string) ([]model.QuizQuestion, error) {
	query := `SELECT ` + quizColumns + ` FROM quiz_questions`
	args := []interface{}{}
	if subject != "" {
		query += ` WHERE subject = ?`
		args = append(args, subject)
	}
	query += ` ORDER BY created_at ASC`
	return r.list(ctx, query, args...)
}

// Due returns choice questions that were never scheduled or are due on or
// before today, never-scheduled first.
func (r *QuizRepository) Due(ctx context.Context, today, subject string) ([]model.QuizQuestion, error) {
	query := `SELECT ` + quizColumns + ` FROM quiz_questions
		 WHERE type = ? AND (next_review IS NULL OR next_review <= ?)`
	args := []interface{}{model.QuestionTypeChoice, today}
	if subject != "" {
		query += ` AND subject = ?`
		args = append(args, subject)
	}
	query += ` ORDER BY next_review IS NOT NULL, next_review ASC, created_at ASC`
	return r.list(ctx, query, args...)
}

func (r *QuizRepository) UpdateSchedule(ctx context.Context, q *model.QuizQuestion) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE quiz_questions
		 SET review_count = ?,
		     correct_count = ?,
		     ease_factor = ?,
		     interval = ?,
		     next_review = ?
		 WHERE id = ?`,
		q.ReviewCount,
		q.CorrectCnt,
		q.EaseFactor,
		q.Interval,
		nullableString(q.NextReview),
		q.ID,
	)
	if err != nil {
		return fmt.Errorf("update quiz schedule: %w", err)
	}
	return requireAffected(result, "update quiz schedule")
}

func (r *QuizRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.QuizQuestion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}
	defer rows.Close()

	questions := []model.QuizQuestion{}
	for rows.Next() {
		q, scanErr := scanQuizQuestion(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz questions: %w", err)
	}
	return questions, nil
}

func scanQuizQuestion(s scanner) (*model.QuizQuestion, error) {
	q := model.QuizQuestion{}
	var options string
	var nextReview sql.NullString
	var createdAt string
	err := s.Scan(
		&q.ID,
		&q.Subject,
		&q.Type,
		&q.Stem,
		&options,
		&q.Answer,
		&q.Explanation,
		&q.Difficulty,
		&q.ReviewCount,
		&q.CorrectCnt,
		&q.EaseFactor,
		&q.Interval,
		&nextReview,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan quiz question: %w", err)
	}

	q.NextReview = stringPtr(nextReview)
	if q.Options, err = decodeList(options); err != nil {
		return nil, fmt.Errorf("parse quiz options: %w", err)
	}
	if q.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse quiz created_at: %w", err)
	}
	return &q, nil
}
