package repository

import (
	"context"
	"database/sql"
	"fmt"

	"studydesk/backend/internal/model"
)

type WeeklyReviewRepository struct {
	db *sql.DB
}

func NewWeeklyReviewRepository(db *sql.DB) *WeeklyReviewRepository {
	return &WeeklyReviewRepository{db: db}
}

const weeklyReviewColumns = `id, week_start, week_end, wrong_question_id, title_snapshot, status,
		        carried_from_week, completed_at, created_at, updated_at`

func (r *WeeklyReviewRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return tx, nil
}

func (r *WeeklyReviewRepository) InsertTx(ctx context.Context, tx *sql.Tx, item *model.WeeklyReviewItem) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO weekly_review_items (
			id, week_start, week_end, wrong_question_id, title_snapshot, status,
			carried_from_week, completed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.WeekStart,
		item.WeekEnd,
		item.WrongQuestionID,
		item.TitleSnapshot,
		item.Status,
		nullableString(item.CarriedFromWeek),
		nullableTime(item.CompletedAt),
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert weekly review item: %w", err)
	}
	return nil
}

func (r *WeeklyReviewRepository) GetTx(ctx context.Context, tx *sql.Tx, id string) (*model.WeeklyReviewItem, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+weeklyReviewColumns+` FROM weekly_review_items WHERE id = ?`, id)
	return scanWeeklyReviewItem(row)
}

func (r *WeeklyReviewRepository) FindByWeekAndQuestionTx(
	ctx context.Context,
	tx *sql.Tx,
	weekStart, wrongQuestionID string,
) (*model.WeeklyReviewItem, error) {
	row := tx.QueryRowContext(
		ctx,
		`SELECT `+weeklyReviewColumns+` FROM weekly_review_items
		 WHERE week_start = ? AND wrong_question_id = ?`,
		weekStart,
		wrongQuestionID,
	)
	return scanWeeklyReviewItem(row)
}

func (r *WeeklyReviewRepository) ListByWeek(ctx context.Context, weekStart string) ([]model.WeeklyReviewItem, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT `+weeklyReviewColumns+` FROM weekly_review_items
		 WHERE week_start = ?
		 ORDER BY created_at ASC`,
		weekStart,
	)
	if err != nil {
		return nil, fmt.Errorf("list weekly review items: %w", err)
	}
	defer rows.Close()

	items := []model.WeeklyReviewItem{}
	for rows.Next() {
		item, scanErr := scanWeeklyReviewItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly review items: %w", err)
	}
	return items, nil
}

func (r *WeeklyReviewRepository) UpdateStatusTx(ctx context.Context, tx *sql.Tx, item *model.WeeklyReviewItem) error {
	_, err := tx.ExecContext(
		ctx,
		`UPDATE weekly_review_items
		 SET status = ?,
		     completed_at = ?,
		     updated_at = ?
		 WHERE id = ?`,
		item.Status,
		nullableTime(item.CompletedAt),
		formatTime(item.UpdatedAt),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update weekly review item: %w", err)
	}
	return nil
}

func scanWeeklyReviewItem(s scanner) (*model.WeeklyReviewItem, error) {
	item := model.WeeklyReviewItem{}
	var carriedFrom sql.NullString
	var completedAt sql.NullString
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&item.ID,
		&item.WeekStart,
		&item.WeekEnd,
		&item.WrongQuestionID,
		&item.TitleSnapshot,
		&item.Status,
		&carriedFrom,
		&completedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan weekly review item: %w", err)
	}

	item.CarriedFromWeek = stringPtr(carriedFrom)
	if item.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return nil, fmt.Errorf("parse weekly review completed_at: %w", err)
	}
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse weekly review created_at: %w", err)
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse weekly review updated_at: %w", err)
	}
	return &item, nil
}
