package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studydesk/backend/internal/model"
)

type FocusTemplateRepository struct {
	db *sql.DB
}

func NewFocusTemplateRepository(db *sql.DB) *FocusTemplateRepository {
	return &FocusTemplateRepository{db: db}
}

const focusTemplateColumns = `id, name, timer_type, duration_minutes, tags, linked_task_title,
		        color_token, is_archived, created_at, updated_at`

func (r *FocusTemplateRepository) Create(ctx context.Context, tpl *model.FocusTemplate) error {
	tags, err := encodeList(tpl.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO focus_templates (
			id, name, timer_type, duration_minutes, tags, linked_task_title,
			color_token, is_archived, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tpl.ID,
		tpl.Name,
		tpl.TimerType,
		tpl.DurationMinutes,
		tags,
		nullableString(tpl.LinkedTaskTitle),
		nullableString(tpl.ColorToken),
		boolToInt(tpl.IsArchived),
		formatTime(tpl.CreatedAt),
		formatTime(tpl.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create focus template: %w", err)
	}
	return nil
}

func (r *FocusTemplateRepository) Get(ctx context.Context, id string) (*model.FocusTemplate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+focusTemplateColumns+` FROM focus_templates WHERE id = ?`, id)
	return scanFocusTemplate(row)
}

func (r *FocusTemplateRepository) List(ctx context.Context, includeArchived bool) ([]model.FocusTemplate, error) {
	query := `SELECT ` + focusTemplateColumns + ` FROM focus_templates`
	if !includeArchived {
		query += ` WHERE is_archived = 0`
	}
	query += ` ORDER BY is_archived ASC, updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list focus templates: %w", err)
	}
	defer rows.Close()

	templates := []model.FocusTemplate{}
	for rows.Next() {
		tpl, scanErr := scanFocusTemplate(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		templates = append(templates, *tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate focus templates: %w", err)
	}
	return templates, nil
}

// Names maps every template id, archived or not, to its name.
func (r *FocusTemplateRepository) Names(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM focus_templates`)
	if err != nil {
		return nil, fmt.Errorf("list focus template names: %w", err)
	}
	defer rows.Close()

	names := map[string]string{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan focus template name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate focus template names: %w", err)
	}
	return names, nil
}

func (r *FocusTemplateRepository) Archive(ctx context.Context, id string, now time.Time) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE focus_templates SET is_archived = 1, updated_at = ? WHERE id = ?`,
		formatTime(now),
		id,
	)
	if err != nil {
		return fmt.Errorf("archive focus template: %w", err)
	}
	return requireAffected(result, "archive focus template")
}

func scanFocusTemplate(s scanner) (*model.FocusTemplate, error) {
	tpl := model.FocusTemplate{}
	var tags string
	var linkedTaskTitle sql.NullString
	var colorToken sql.NullString
	var archived int
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&tpl.ID,
		&tpl.Name,
		&tpl.TimerType,
		&tpl.DurationMinutes,
		&tags,
		&linkedTaskTitle,
		&colorToken,
		&archived,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan focus template: %w", err)
	}

	tpl.LinkedTaskTitle = stringPtr(linkedTaskTitle)
	tpl.ColorToken = stringPtr(colorToken)
	tpl.IsArchived = archived != 0
	if tpl.Tags, err = decodeList(tags); err != nil {
		return nil, fmt.Errorf("parse focus template tags: %w", err)
	}
	if tpl.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse focus template created_at: %w", err)
	}
	if tpl.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse focus template updated_at: %w", err)
	}
	return &tpl, nil
}
