package repository

import (
	"context"
	"database/sql"
	"fmt"

	"studydesk/backend/internal/model"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, status, priority, date, start_time, duration,
		        tags, timer_type, timer_duration, created_at, updated_at`

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	tags, err := encodeList(task.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO tasks (
			id, title, description, status, priority, date, start_time, duration,
			tags, timer_type, timer_duration, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Date,
		task.StartTime,
		task.Duration,
		tags,
		task.TimerType,
		task.TimerDuration,
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// List returns tasks ordered by date and start time. An empty date lists all.
func (r *TaskRepository) List(ctx context.Context, date string) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := []interface{}{}
	if date != "" {
		query += ` WHERE date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY date ASC, start_time ASC, created_at ASC`
	return r.list(ctx, query, args...)
}

func (r *TaskRepository) ListRange(ctx context.Context, start, end string) ([]model.Task, error) {
	return r.list(
		ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE date >= ? AND date <= ? ORDER BY date ASC, start_time ASC`,
		start,
		end,
	)
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	tags, err := encodeList(task.Tags)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE tasks
		 SET title = ?,
		     description = ?,
		     status = ?,
		     priority = ?,
		     date = ?,
		     start_time = ?,
		     duration = ?,
		     tags = ?,
		     timer_type = ?,
		     timer_duration = ?,
		     updated_at = ?
		 WHERE id = ?`,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Date,
		task.StartTime,
		task.Duration,
		tags,
		task.TimerType,
		task.TimerDuration,
		formatTime(task.UpdatedAt),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireAffected(result, "update task")
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(result, "delete task")
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(s scanner) (*model.Task, error) {
	task := model.Task{}
	var tags string
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Date,
		&task.StartTime,
		&task.Duration,
		&tags,
		&task.TimerType,
		&task.TimerDuration,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	if task.Tags, err = decodeList(tags); err != nil {
		return nil, fmt.Errorf("parse task tags: %w", err)
	}
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse task created_at: %w", err)
	}
	if task.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse task updated_at: %w", err)
	}
	return &task, nil
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
