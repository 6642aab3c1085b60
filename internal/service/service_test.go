package service

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"studydesk/backend/internal/db"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/srs"
	"studydesk/backend/migrations"
)

// 2024-03-06 is a Wednesday.
var fixedNow = time.Date(2024, 3, 6, 10, 0, 0, 0, time.Local)

func setupServices(t *testing.T) *Services {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"), migrations.FS)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	svc := New(database, srs.NewScheduler(srs.DefaultParams()))
	setClock(svc, func() time.Time { return fixedNow })
	return svc
}

func setClock(svc *Services, now func() time.Time) {
	svc.Tasks.now = now
	svc.FocusRuns.now = now
	svc.FocusTemplates.now = now
	svc.Quiz.now = now
	svc.WrongQuestions.now = now
	svc.WeeklyReview.now = now
	svc.Stats.now = now
}

func createWrongQuestion(t *testing.T, svc *Services, content string) *model.WrongQuestion {
	t.Helper()
	q, apiErr := svc.WrongQuestions.Create(context.Background(), model.WrongQuestionInput{
		Subject:         "math",
		QuestionContent: content,
	})
	if apiErr != nil {
		t.Fatalf("create wrong question: %v", apiErr)
	}
	return q
}

func TestCarryToNextWeek(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)

	a := createWrongQuestion(t, svc, "## Limit of sin(x)/x")
	b := createWrongQuestion(t, svc, "Eigenvalues of a 2x2 matrix")
	c := createWrongQuestion(t, svc, "Already reviewed")

	itemA, apiErr := svc.WeeklyReview.AddToCurrentWeek(ctx, a.ID)
	if apiErr != nil {
		t.Fatalf("add a: %v", apiErr)
	}
	if itemA.WeekStart != "2024-03-04" || itemA.WeekEnd != "2024-03-10" {
		t.Fatalf("unexpected week bounds %s..%s", itemA.WeekStart, itemA.WeekEnd)
	}
	if itemA.TitleSnapshot != "Limit of sin(x)/x" {
		t.Fatalf("unexpected snapshot %q", itemA.TitleSnapshot)
	}
	itemB, _ := svc.WeeklyReview.AddToCurrentWeek(ctx, b.ID)
	itemC, _ := svc.WeeklyReview.AddToCurrentWeek(ctx, c.ID)
	if _, apiErr := svc.WeeklyReview.ToggleDone(ctx, itemC.ID, true); apiErr != nil {
		t.Fatalf("toggle c: %v", apiErr)
	}

	carried, apiErr := svc.WeeklyReview.CarryToNextWeek(ctx, []string{itemA.ID, itemB.ID, itemC.ID}, "2024-03-04")
	if apiErr != nil {
		t.Fatalf("carry: %v", apiErr)
	}
	if len(carried) != 2 {
		t.Fatalf("expected 2 carried items, got %d", len(carried))
	}
	for _, item := range carried {
		if item.WeekStart != "2024-03-11" || item.Status != model.ReviewItemPending {
			t.Fatalf("unexpected carried item %+v", item)
		}
		if item.CarriedFromWeek == nil || *item.CarriedFromWeek != "2024-03-04" {
			t.Fatalf("expected carried_from_week 2024-03-04, got %v", item.CarriedFromWeek)
		}
	}

	current, apiErr := svc.WeeklyReview.List(ctx, "2024-03-06")
	if apiErr != nil {
		t.Fatalf("list current: %v", apiErr)
	}
	pending := 0
	for _, item := range current {
		if item.Status == model.ReviewItemPending {
			pending++
		}
	}
	if len(current) != 3 || pending != 2 {
		t.Fatalf("expected originals untouched, got %d items with %d pending", len(current), pending)
	}

	again, apiErr := svc.WeeklyReview.CarryToNextWeek(ctx, []string{itemA.ID, itemB.ID}, "2024-03-04")
	if apiErr != nil {
		t.Fatalf("carry again: %v", apiErr)
	}
	if len(again) != 0 {
		t.Fatalf("expected repeat carry to skip existing questions, got %d", len(again))
	}

	next, _ := svc.WeeklyReview.List(ctx, "2024-03-17")
	if len(next) != 2 {
		t.Fatalf("expected 2 items next week, got %d", len(next))
	}
}

func TestCarryRejectsMissingWeek(t *testing.T) {
	svc := setupServices(t)
	_, apiErr := svc.WeeklyReview.CarryToNextWeek(context.Background(), []string{"x"}, "")
	if apiErr == nil || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %v", apiErr)
	}
}

func TestWeeklyItemsSurviveQuestionDeletion(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)

	q := createWrongQuestion(t, svc, "Integrate x^2")
	first, _ := svc.WeeklyReview.AddToCurrentWeek(ctx, q.ID)
	second, apiErr := svc.WeeklyReview.AddToCurrentWeek(ctx, q.ID)
	if apiErr != nil {
		t.Fatalf("add again: %v", apiErr)
	}
	if first.ID != second.ID {
		t.Fatalf("expected duplicate add to return the existing item")
	}

	if apiErr := svc.WrongQuestions.Delete(ctx, q.ID); apiErr != nil {
		t.Fatalf("delete: %v", apiErr)
	}
	items, apiErr := svc.WeeklyReview.List(ctx, first.WeekStart)
	if apiErr != nil {
		t.Fatalf("list: %v", apiErr)
	}
	if len(items) != 1 || !items[0].QuestionMissing || items[0].DisplayTitle != "Integrate x^2" {
		t.Fatalf("unexpected items after delete %+v", items)
	}

	if _, apiErr := svc.WeeklyReview.AddToCurrentWeek(ctx, "missing"); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected not found for unknown question, got %v", apiErr)
	}
}

func TestWeeklyListRequiresWeekStart(t *testing.T) {
	svc := setupServices(t)

	for _, weekStart := range []string{"", "   "} {
		items, apiErr := svc.WeeklyReview.List(context.Background(), weekStart)
		if apiErr == nil || apiErr.Status != http.StatusBadRequest || apiErr.Code != "invalid_week_start" {
			t.Fatalf("week_start %q: expected invalid_week_start, got items=%v err=%v", weekStart, items, apiErr)
		}
	}
	if _, apiErr := svc.WeeklyReview.List(context.Background(), "2024-03-10"); apiErr != nil {
		t.Fatalf("expected any day of the week to be accepted, got %v", apiErr)
	}
}

func TestToggleDoneRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)
	q := createWrongQuestion(t, svc, "Bayes")
	item, _ := svc.WeeklyReview.AddToCurrentWeek(ctx, q.ID)

	done, apiErr := svc.WeeklyReview.ToggleDone(ctx, item.ID, true)
	if apiErr != nil || done.Status != model.ReviewItemDone || done.CompletedAt == nil {
		t.Fatalf("expected done with completed_at, got %+v err=%v", done, apiErr)
	}
	pending, apiErr := svc.WeeklyReview.ToggleDone(ctx, item.ID, false)
	if apiErr != nil || pending.Status != model.ReviewItemPending || pending.CompletedAt != nil {
		t.Fatalf("expected pending without completed_at, got %+v err=%v", pending, apiErr)
	}
	if _, apiErr := svc.WeeklyReview.ToggleDone(ctx, "missing", true); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", apiErr)
	}
}

func TestFocusRunStartAbortsPreviousRunOfSameClient(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)

	first, apiErr := svc.FocusRuns.Start(ctx, "client-a", model.StartFocusRunPayload{TimerType: model.TimerTypePomodoro, PlannedMinutes: 25})
	if apiErr != nil {
		t.Fatalf("start first: %v", apiErr)
	}
	other, _ := svc.FocusRuns.Start(ctx, "client-b", model.StartFocusRunPayload{TimerType: model.TimerTypePomodoro, PlannedMinutes: 25})

	svc.FocusRuns.now = func() time.Time { return fixedNow.Add(5 * time.Minute) }
	second, apiErr := svc.FocusRuns.Start(ctx, "client-a", model.StartFocusRunPayload{TimerType: model.TimerTypeCountdown, PlannedMinutes: 10})
	if apiErr != nil {
		t.Fatalf("start second: %v", apiErr)
	}

	running, _ := svc.FocusRuns.List(ctx, model.FocusRunQuery{Status: model.RunStatusRunning})
	ids := map[string]bool{}
	for _, run := range running {
		ids[run.ID] = true
	}
	if len(running) != 2 || !ids[second.ID] || !ids[other.ID] {
		t.Fatalf("expected only the new run and the other client's run running, got %+v", running)
	}

	aborted, _ := svc.FocusRuns.List(ctx, model.FocusRunQuery{Status: model.RunStatusAborted})
	if len(aborted) != 1 || aborted[0].ID != first.ID || aborted[0].ActualSeconds != 300 {
		t.Fatalf("expected first run aborted with 300s, got %+v", aborted)
	}
}

func TestFocusRunStartAndFinishAreIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)

	payload := model.StartFocusRunPayload{ID: "run-1", TimerType: model.TimerTypePomodoro, PlannedMinutes: 25, Tags: []string{" math ", "math"}}
	run, apiErr := svc.FocusRuns.Start(ctx, "client-a", payload)
	if apiErr != nil {
		t.Fatalf("start: %v", apiErr)
	}
	if run.Date != "2024-03-06" || run.Source != "focus" || len(run.Tags) != 1 {
		t.Fatalf("unexpected defaults %+v", run)
	}
	again, apiErr := svc.FocusRuns.Start(ctx, "client-a", payload)
	if apiErr != nil || again.ID != "run-1" || again.Status != model.RunStatusRunning {
		t.Fatalf("expected repeated start to return stored row, got %+v err=%v", again, apiErr)
	}

	finished, apiErr := svc.FocusRuns.Finish(ctx, "client-a", "run-1", model.FinishFocusRunPayload{Status: model.RunStatusCompleted, ActualSeconds: 1500})
	if apiErr != nil || finished.Status != model.RunStatusCompleted || finished.ActualSeconds != 1500 {
		t.Fatalf("unexpected finish %+v err=%v", finished, apiErr)
	}
	second, apiErr := svc.FocusRuns.Finish(ctx, "client-a", "run-1", model.FinishFocusRunPayload{Status: model.RunStatusAborted, ActualSeconds: 3})
	if apiErr != nil || second.Status != model.RunStatusCompleted || second.ActualSeconds != 1500 {
		t.Fatalf("expected terminal run to stay unchanged, got %+v err=%v", second, apiErr)
	}
}

func TestFocusRunsAreScopedToTheirClient(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)

	payload := model.StartFocusRunPayload{ID: "run-a", TimerType: model.TimerTypePomodoro, PlannedMinutes: 25}
	if _, apiErr := svc.FocusRuns.Start(ctx, "client-a", payload); apiErr != nil {
		t.Fatalf("start: %v", apiErr)
	}

	for _, clientID := range []string{"client-b", ""} {
		_, apiErr := svc.FocusRuns.Finish(ctx, clientID, "run-a", model.FinishFocusRunPayload{Status: model.RunStatusAborted})
		if apiErr == nil || apiErr.Status != http.StatusNotFound {
			t.Fatalf("client %q: expected not found finishing another client's run, got %v", clientID, apiErr)
		}
	}
	if _, apiErr := svc.FocusRuns.Start(ctx, "client-b", payload); apiErr == nil || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected conflict reusing another client's run id, got %v", apiErr)
	}

	runs, apiErr := svc.FocusRuns.List(ctx, model.FocusRunQuery{})
	if apiErr != nil {
		t.Fatalf("list: %v", apiErr)
	}
	if len(runs) != 1 || runs[0].Status != model.RunStatusRunning || runs[0].ClientID != "client-a" {
		t.Fatalf("expected client-a's run untouched, got %+v", runs)
	}

	finished, apiErr := svc.FocusRuns.Finish(ctx, "client-a", "run-a", model.FinishFocusRunPayload{Status: model.RunStatusCompleted, ActualSeconds: 1500})
	if apiErr != nil || finished.Status != model.RunStatusCompleted {
		t.Fatalf("expected owner to finish its run, got %+v err=%v", finished, apiErr)
	}
}

func TestFocusRunValidation(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)

	cases := []struct {
		name    string
		payload model.StartFocusRunPayload
	}{
		{"zero minutes", model.StartFocusRunPayload{TimerType: model.TimerTypePomodoro}},
		{"bad timer", model.StartFocusRunPayload{TimerType: "stopwatch", PlannedMinutes: 5}},
		{"bad date", model.StartFocusRunPayload{TimerType: model.TimerTypePomodoro, PlannedMinutes: 5, Date: "03/06"}},
	}
	for _, tc := range cases {
		if _, apiErr := svc.FocusRuns.Start(ctx, "c", tc.payload); apiErr == nil || apiErr.Status != http.StatusBadRequest {
			t.Fatalf("%s: expected bad request, got %v", tc.name, apiErr)
		}
	}
	if _, apiErr := svc.FocusRuns.Finish(ctx, "c", "x", model.FinishFocusRunPayload{Status: "running"}); apiErr == nil || apiErr.Code != "invalid_status" {
		t.Fatalf("expected invalid_status, got %v", apiErr)
	}
	if _, apiErr := svc.FocusRuns.Finish(ctx, "c", "missing", model.FinishFocusRunPayload{Status: model.RunStatusAborted}); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", apiErr)
	}
}

func TestFocusStatsRange(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)

	tpl, _ := svc.FocusTemplates.Create(ctx, model.FocusTemplateInput{Name: "Deep work", DurationMinutes: 50})
	tplID := tpl.ID
	run, _ := svc.FocusRuns.Start(ctx, "c", model.StartFocusRunPayload{TimerType: model.TimerTypePomodoro, PlannedMinutes: 50, TemplateID: &tplID})
	svc.FocusRuns.Finish(ctx, "c", run.ID, model.FinishFocusRunPayload{Status: model.RunStatusCompleted, ActualSeconds: 3000})
	if apiErr := svc.FocusTemplates.Archive(ctx, tpl.ID); apiErr != nil {
		t.Fatalf("archive: %v", apiErr)
	}

	result, apiErr := svc.FocusRuns.Stats(ctx, model.FocusStatsQuery{Dimension: model.DimensionTemplate})
	if apiErr != nil {
		t.Fatalf("stats: %v", apiErr)
	}
	if result.StartDate != "2024-02-29" || result.EndDate != "2024-03-06" {
		t.Fatalf("unexpected default range %s..%s", result.StartDate, result.EndDate)
	}
	if result.Summary.TotalFocusMinutes != 50 || len(result.Slices) != 1 || result.Slices[0].Key != "Deep work" {
		t.Fatalf("expected archived template name to resolve, got %+v", result)
	}

	if _, apiErr := svc.FocusRuns.Stats(ctx, model.FocusStatsQuery{StartDate: "2024-03-07", EndDate: "2024-03-01"}); apiErr == nil || apiErr.Code != "invalid_range" {
		t.Fatalf("expected invalid_range, got %v", apiErr)
	}
}

func TestQuizAnswerAndDue(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)

	if _, apiErr := svc.Quiz.Create(ctx, model.QuizQuestionInput{Subject: "math", Stem: "2+2", Options: []string{"3", "4"}, Answer: "B"}); apiErr == nil {
		t.Fatal("expected option count validation")
	}
	if _, apiErr := svc.Quiz.Create(ctx, model.QuizQuestionInput{Subject: "math", Stem: "2+2", Options: []string{"1", "2", "3", "4"}, Answer: "E"}); apiErr == nil {
		t.Fatal("expected answer letter validation")
	}

	q, apiErr := svc.Quiz.Create(ctx, model.QuizQuestionInput{Subject: "math", Stem: "2+2", Options: []string{"1", "2", "3", "4"}, Answer: "d"})
	if apiErr != nil {
		t.Fatalf("create: %v", apiErr)
	}
	svc.Quiz.Create(ctx, model.QuizQuestionInput{Subject: "english", Type: "short", Stem: "spell it", Answer: "it"})

	due, _ := svc.Quiz.Due(ctx, "")
	if len(due) != 1 || due[0].ID != q.ID {
		t.Fatalf("expected only the unscheduled choice question due, got %+v", due)
	}

	answered, apiErr := svc.Quiz.Answer(ctx, q.ID, true)
	if apiErr != nil {
		t.Fatalf("answer: %v", apiErr)
	}
	if answered.Interval != 1 || answered.NextReview == nil || *answered.NextReview != "2024-03-07" {
		t.Fatalf("unexpected schedule %+v", answered)
	}
	if due, _ := svc.Quiz.Due(ctx, "math"); len(due) != 0 {
		t.Fatalf("expected nothing due after answering, got %d", len(due))
	}

	svc.Quiz.now = func() time.Time { return fixedNow.AddDate(0, 0, 1) }
	if due, _ := svc.Quiz.Due(ctx, "math"); len(due) != 1 {
		t.Fatalf("expected question due tomorrow, got %d", len(due))
	}

	if _, apiErr := svc.Quiz.Answer(ctx, "missing", true); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", apiErr)
	}
}

func TestWrongQuestionReviewMastery(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)
	q := createWrongQuestion(t, svc, "Taylor series")

	for i := 0; i < 5; i++ {
		reviewed, apiErr := svc.WrongQuestions.Review(ctx, q.ID, true)
		if apiErr != nil {
			t.Fatalf("review: %v", apiErr)
		}
		q = reviewed
	}
	if q.MasteryLevel != model.MasteryMastered {
		t.Fatalf("expected mastery capped at 3, got %d", q.MasteryLevel)
	}
	q, _ = svc.WrongQuestions.Review(ctx, q.ID, false)
	if q.MasteryLevel != 2 || q.IntervalDays != 1 || *q.LastReviewDate != "2024-03-06" {
		t.Fatalf("unexpected state after wrong review %+v", q)
	}

	stats, apiErr := svc.WrongQuestions.Stats(ctx)
	if apiErr != nil || stats.Active != 1 || stats.ByMastery[2] != 1 || stats.Due != 0 {
		t.Fatalf("unexpected stats %+v err=%v", stats, apiErr)
	}
}

func TestTaskDefaultsAndWeeklyStats(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t)

	task, apiErr := svc.Tasks.Create(ctx, model.Task{Title: "  Read chapter 3 ", Tags: []string{"math"}})
	if apiErr != nil {
		t.Fatalf("create task: %v", apiErr)
	}
	if task.Status != model.TaskStatusTodo || task.Priority != model.PriorityMedium || task.StartTime != "09:00" || task.TimerType != model.TimerTypeNone {
		t.Fatalf("unexpected defaults %+v", task)
	}
	svc.Tasks.Create(ctx, model.Task{Title: "Essay", Tags: []string{"english"}, Status: model.TaskStatusDone})

	done := model.TaskStatusDone
	if _, apiErr := svc.Tasks.Update(ctx, task.ID, model.TaskPatch{Status: &done}); apiErr != nil {
		t.Fatalf("update: %v", apiErr)
	}
	bad := "paused"
	if _, apiErr := svc.Tasks.Update(ctx, task.ID, model.TaskPatch{Status: &bad}); apiErr == nil {
		t.Fatal("expected invalid status")
	}

	weekly, apiErr := svc.Stats.Weekly(ctx, "")
	if apiErr != nil {
		t.Fatalf("weekly: %v", apiErr)
	}
	if weekly.CompletionRate != 100 || weekly.SubjectDistribution["math"] != 50 {
		t.Fatalf("unexpected weekly stats %+v", weekly)
	}
}
