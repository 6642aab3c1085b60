package repository

import (
	"context"
	"database/sql"
	"fmt"

	"studydesk/backend/internal/model"
)

type FocusRunRepository struct {
	db *sql.DB
}

func NewFocusRunRepository(db *sql.DB) *FocusRunRepository {
	return &FocusRunRepository{db: db}
}

const focusRunColumns = `id, client_id, source, template_id, task_id, timer_type, planned_minutes,
		        actual_seconds, status, started_at, ended_at, date, tags, note, created_at, updated_at`

func (r *FocusRunRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return tx, nil
}

func (r *FocusRunRepository) InsertTx(ctx context.Context, tx *sql.Tx, run *model.FocusRun) error {
	tags, err := encodeList(run.Tags)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO focus_runs (
			id, client_id, source, template_id, task_id, timer_type, planned_minutes,
			actual_seconds, status, started_at, ended_at, date, tags, note, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.ClientID,
		run.Source,
		nullableString(run.TemplateID),
		nullableString(run.TaskID),
		run.TimerType,
		run.PlannedMinutes,
		run.ActualSeconds,
		run.Status,
		formatTime(run.StartedAt),
		nullableTime(run.EndedAt),
		run.Date,
		tags,
		nullableString(run.Note),
		formatTime(run.CreatedAt),
		formatTime(run.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert focus run: %w", err)
	}
	return nil
}

func (r *FocusRunRepository) GetTx(ctx context.Context, tx *sql.Tx, id string) (*model.FocusRun, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+focusRunColumns+` FROM focus_runs WHERE id = ?`, id)
	return scanFocusRun(row)
}

func (r *FocusRunRepository) Get(ctx context.Context, id string) (*model.FocusRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+focusRunColumns+` FROM focus_runs WHERE id = ?`, id)
	return scanFocusRun(row)
}

// ListRunningByClientTx returns the running runs owned by clientID.
func (r *FocusRunRepository) ListRunningByClientTx(ctx context.Context, tx *sql.Tx, clientID string) ([]model.FocusRun, error) {
	rows, err := tx.QueryContext(
		ctx,
		`SELECT `+focusRunColumns+` FROM focus_runs
		 WHERE client_id = ? AND status = ?
		 ORDER BY started_at ASC`,
		clientID,
		model.RunStatusRunning,
	)
	if err != nil {
		return nil, fmt.Errorf("list running focus runs: %w", err)
	}
	return collectFocusRuns(rows)
}

func (r *FocusRunRepository) UpdateTx(ctx context.Context, tx *sql.Tx, run *model.FocusRun) error {
	tags, err := encodeList(run.Tags)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(
		ctx,
		`UPDATE focus_runs
		 SET actual_seconds = ?,
		     status = ?,
		     ended_at = ?,
		     tags = ?,
		     note = ?,
		     updated_at = ?
		 WHERE id = ?`,
		run.ActualSeconds,
		run.Status,
		nullableTime(run.EndedAt),
		tags,
		nullableString(run.Note),
		formatTime(run.UpdatedAt),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update focus run: %w", err)
	}
	return nil
}

// List returns runs ordered by started_at, filtered by the non-empty fields of q.
func (r *FocusRunRepository) List(ctx context.Context, q model.FocusRunQuery) ([]model.FocusRun, error) {
	query := `SELECT ` + focusRunColumns + ` FROM focus_runs WHERE 1 = 1`
	args := []interface{}{}
	if q.StartDate != "" {
		query += ` AND date >= ?`
		args = append(args, q.StartDate)
	}
	if q.EndDate != "" {
		query += ` AND date <= ?`
		args = append(args, q.EndDate)
	}
	if q.Status != "" {
		query += ` AND status = ?`
		args = append(args, q.Status)
	}
	query += ` ORDER BY started_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list focus runs: %w", err)
	}
	return collectFocusRuns(rows)
}

func collectFocusRuns(rows *sql.Rows) ([]model.FocusRun, error) {
	defer rows.Close()

	runs := []model.FocusRun{}
	for rows.Next() {
		run, err := scanFocusRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate focus runs: %w", err)
	}
	return runs, nil
}

func scanFocusRun(s scanner) (*model.FocusRun, error) {
	run := model.FocusRun{}
	var templateID sql.NullString
	var taskID sql.NullString
	var startedAt string
	var endedAt sql.NullString
	var tags string
	var note sql.NullString
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&run.ID,
		&run.ClientID,
		&run.Source,
		&templateID,
		&taskID,
		&run.TimerType,
		&run.PlannedMinutes,
		&run.ActualSeconds,
		&run.Status,
		&startedAt,
		&endedAt,
		&run.Date,
		&tags,
		&note,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan focus run: %w", err)
	}

	run.TemplateID = stringPtr(templateID)
	run.TaskID = stringPtr(taskID)
	run.Note = stringPtr(note)
	if run.Tags, err = decodeList(tags); err != nil {
		return nil, fmt.Errorf("parse focus run tags: %w", err)
	}
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse focus run started_at: %w", err)
	}
	if run.EndedAt, err = parseNullableTime(endedAt); err != nil {
		return nil, fmt.Errorf("parse focus run ended_at: %w", err)
	}
	if run.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse focus run created_at: %w", err)
	}
	if run.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse focus run updated_at: %w", err)
	}
	return &run, nil
}
