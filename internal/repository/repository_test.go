package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"studydesk/backend/internal/db"
	"studydesk/backend/internal/model"
	"studydesk/backend/migrations"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"), migrations.FS)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

func TestFocusRunListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewFocusRunRepository(openTestDB(t))
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	insert := func(id, clientID, status, date string, offset time.Duration) {
		t.Helper()
		tx, err := repo.BeginTx(ctx)
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		defer tx.Rollback()
		run := model.FocusRun{
			ID:             id,
			ClientID:       clientID,
			Source:         "focus",
			TimerType:      model.TimerTypePomodoro,
			PlannedMinutes: 25,
			Status:         status,
			StartedAt:      base.Add(offset),
			Date:           date,
			CreatedAt:      base,
			UpdatedAt:      base,
		}
		if err := repo.InsertTx(ctx, tx, &run); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}

	insert("late", "c1", model.RunStatusCompleted, "2024-03-04", 2*time.Hour)
	insert("early", "c1", model.RunStatusAborted, "2024-03-04", time.Hour)
	insert("running", "c1", model.RunStatusRunning, "2024-03-05", 3*time.Hour)
	insert("other-client", "c2", model.RunStatusRunning, "2024-03-05", 4*time.Hour)
	insert("outside", "c1", model.RunStatusCompleted, "2024-03-20", 0)

	runs, err := repo.List(ctx, model.FocusRunQuery{StartDate: "2024-03-04", EndDate: "2024-03-05"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 4 || runs[0].ID != "early" || runs[1].ID != "late" {
		t.Fatalf("unexpected runs %+v", runs)
	}
	if runs[0].EndedAt != nil || runs[0].TemplateID != nil || runs[0].Tags == nil {
		t.Fatalf("expected nullable fields to round trip as nil, got %+v", runs[0])
	}

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()
	running, err := repo.ListRunningByClientTx(ctx, tx, "c1")
	if err != nil {
		t.Fatalf("list running: %v", err)
	}
	if len(running) != 1 || running[0].ID != "running" {
		t.Fatalf("unexpected running runs %+v", running)
	}
}

func TestWeeklyReviewItemUniquePerWeek(t *testing.T) {
	ctx := context.Background()
	repo := NewWeeklyReviewRepository(openTestDB(t))
	now := time.Now().UTC()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	item := model.WeeklyReviewItem{
		ID:              "i1",
		WeekStart:       "2024-03-04",
		WeekEnd:         "2024-03-10",
		WrongQuestionID: "q1",
		TitleSnapshot:   "limits",
		Status:          model.ReviewItemPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repo.InsertTx(ctx, tx, &item); err != nil {
		t.Fatalf("insert: %v", err)
	}
	dup := item
	dup.ID = "i2"
	if err := repo.InsertTx(ctx, tx, &dup); err == nil {
		t.Fatal("expected unique violation for same week and question")
	}

	found, err := repo.FindByWeekAndQuestionTx(ctx, tx, "2024-03-04", "q1")
	if err != nil || found.ID != "i1" {
		t.Fatalf("expected to find i1, got %+v err=%v", found, err)
	}
	if _, err := repo.FindByWeekAndQuestionTx(ctx, tx, "2024-03-11", "q1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUnknownTaskReturnsNotFound(t *testing.T) {
	repo := NewTaskRepository(openTestDB(t))
	if err := repo.Delete(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
