package lan_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"studydesk/backend/internal/db"
	apperrors "studydesk/backend/internal/errors"
	"studydesk/backend/internal/focus"
	"studydesk/backend/internal/gateway"
	"studydesk/backend/internal/gateway/lan"
	"studydesk/backend/internal/logger"
	"studydesk/backend/internal/model"
	"studydesk/backend/internal/realtime"
	"studydesk/backend/internal/router"
	"studydesk/backend/internal/service"
	"studydesk/backend/internal/srs"
	"studydesk/backend/migrations"
)

func openServices(t *testing.T) *service.Services {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"), migrations.FS)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return service.New(database, srs.NewScheduler(srs.DefaultParams()))
}

func newLANClient(t *testing.T) *lan.Client {
	t.Helper()
	engine := router.New(router.Deps{
		Services:  openServices(t),
		Sessions:  service.NewSessionService("test-secret", time.Hour),
		Hub:       realtime.NewHub(nil),
		Publisher: realtime.NewPublisher(realtime.NewMemoryBus(), nil),
		Log:       logger.NewNop(),
	})
	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return lan.NewClient(server.URL)
}

// exerciseGateway runs the same scenario against any gateway and returns a
// summary that must match between implementations.
func exerciseGateway(t *testing.T, g gateway.Gateway) map[string]any {
	t.Helper()
	ctx := context.Background()

	task, err := g.CreateTask(ctx, model.Task{Title: "Geometry set", Tags: []string{"math"}})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	template, err := g.CreateFocusTemplate(ctx, model.FocusTemplateInput{DurationMinutes: 30, LinkedTaskTitle: task.Title})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	engine := focus.NewEngine(g)
	run, err := engine.Start(focus.StartRequest{TemplateID: &template.ID, TaskID: &task.ID, PlannedMinutes: 30})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	actual := 1200
	if _, err := engine.Finalize(run.ID, model.RunStatusCompleted, &actual); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	engine.Close()

	stats, err := g.GetFocusStats(ctx, model.FocusStatsQuery{Dimension: model.DimensionTemplate})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	reloaded, err := g.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}

	question, err := g.CreateWrongQuestion(ctx, model.WrongQuestionInput{Subject: "math", QuestionContent: "Area of a circle"})
	if err != nil {
		t.Fatalf("create wrong question: %v", err)
	}
	item, err := g.AddWeeklyReviewItem(ctx, question.ID)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	carried, err := g.CarryWeeklyReviewItemsToNextWeek(ctx, []string{item.ID}, item.WeekStart)
	if err != nil {
		t.Fatalf("carry: %v", err)
	}
	toggled, err := g.ToggleWeeklyReviewItemDone(ctx, item.ID, true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := g.DeleteWrongQuestion(ctx, question.ID); err != nil {
		t.Fatalf("delete wrong question: %v", err)
	}
	items, err := g.GetWeeklyReviewItems(ctx, item.WeekStart)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}

	quiz, err := g.CreateQuestion(ctx, model.QuizQuestionInput{
		Subject: "math",
		Type:    model.QuestionTypeChoice,
		Stem:    "2 + 2",
		Options: []string{"3", "4", "5", "6"},
		Answer:  "b",
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	due, err := g.GetDueQuestions(ctx, "math")
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	answered, err := g.AnswerQuestion(ctx, quiz.ID, true)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}

	archiveErr := g.ArchiveFocusTemplate(ctx, "missing")
	var apiErr *apperrors.APIError
	if !errors.As(archiveErr, &apiErr) {
		t.Fatalf("expected APIError, got %v", archiveErr)
	}

	return map[string]any{
		"template_name":    template.Name,
		"task_status":      reloaded.Status,
		"focus_minutes":    stats.Summary.TotalFocusMinutes,
		"top_slice":        stats.Slices[0].Key,
		"carried":          len(carried),
		"toggled_status":   toggled.Status,
		"question_missing": items[0].QuestionMissing,
		"display_title":    items[0].DisplayTitle,
		"due":              len(due),
		"interval":         answered.Interval,
		"answer":           quiz.Answer,
		"archive_status":   apiErr.Status,
		"archive_code":     apiErr.Code,
	}
}

func TestLANClientMatchesLocalGateway(t *testing.T) {
	local := exerciseGateway(t, gateway.NewLocal(openServices(t), ""))
	remote := exerciseGateway(t, newLANClient(t))

	for key, want := range local {
		if got := remote[key]; got != want {
			t.Fatalf("%s: local=%v lan=%v", key, want, got)
		}
	}
	if local["task_status"] != model.TaskStatusInProgress || local["focus_minutes"] != int64(20) {
		t.Fatalf("unexpected local summary %v", local)
	}
	if local["archive_status"] != http.StatusNotFound {
		t.Fatalf("expected 404 archiving unknown template, got %v", local["archive_status"])
	}
}

func TestLANClientOpensSessionLazily(t *testing.T) {
	client := newLANClient(t)
	if client.ClientID() != "" {
		t.Fatal("expected no session before the first request")
	}
	if _, err := client.ListTasks(context.Background(), ""); err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if client.ClientID() == "" {
		t.Fatal("expected a client id after the first request")
	}
}

func TestLANClientRejectsBadToken(t *testing.T) {
	engine := router.New(router.Deps{
		Services:  openServices(t),
		Sessions:  service.NewSessionService("test-secret", time.Hour),
		Hub:       realtime.NewHub(nil),
		Publisher: realtime.NewPublisher(realtime.NewMemoryBus(), nil),
	})
	server := httptest.NewServer(engine)
	defer server.Close()

	client := lan.NewClient(server.URL, lan.WithToken("forged"))
	_, err := client.ListTasks(context.Background(), "")
	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Code != "unauthorized" {
		t.Fatalf("expected unauthorized APIError, got %v", err)
	}
}
