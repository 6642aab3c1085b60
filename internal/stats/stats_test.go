package stats

import (
	"testing"

	"studydesk/backend/internal/model"
)

func run(date, status string, actual int, tags ...string) model.FocusRun {
	return model.FocusRun{
		Date:           date,
		Status:         status,
		ActualSeconds:  actual,
		PlannedMinutes: 25,
		TimerType:      model.TimerTypePomodoro,
		Tags:           tags,
	}
}

func TestSummarizeCountsOnlyCompletedRuns(t *testing.T) {
	runs := []model.FocusRun{
		run("2024-03-04", model.RunStatusCompleted, 25*60, "math"),
		run("2024-03-04", model.RunStatusAborted, 10*60, "math"),
		run("2024-03-05", model.RunStatusCompleted, 5*60, "english"),
	}

	result := Summarize(runs, nil, "2024-03-04", "2024-03-10", model.DimensionTag)
	if result.Summary.TotalFocusMinutes != 30 {
		t.Fatalf("expected 30 minutes, got %d", result.Summary.TotalFocusMinutes)
	}
	if result.Summary.CompletedRuns != 2 {
		t.Fatalf("expected 2 completed runs, got %d", result.Summary.CompletedRuns)
	}
	if result.Summary.TotalRuns != 3 {
		t.Fatalf("expected 3 total runs, got %d", result.Summary.TotalRuns)
	}
	completed, total := 2, 3
	if want := float64(completed) / float64(total) * 100; result.Summary.CompletionRate != want {
		t.Fatalf("expected unrounded completion rate %v, got %v", want, result.Summary.CompletionRate)
	}
	if len(result.Slices) != 2 || result.Slices[0].Key != "math" || result.Slices[0].Minutes != 25 {
		t.Fatalf("unexpected slices %+v", result.Slices)
	}
	mathMinutes, allMinutes := 25, 30
	if want := float64(mathMinutes) / float64(allMinutes) * 100; result.Slices[0].Percent != want {
		t.Fatalf("expected unrounded percent %v, got %v", want, result.Slices[0].Percent)
	}
}

func TestSummarizeEmptyRange(t *testing.T) {
	result := Summarize(nil, nil, "2024-03-04", "2024-03-10", "")
	if result.Summary.CompletionRate != 0 {
		t.Fatalf("expected zero completion rate, got %v", result.Summary.CompletionRate)
	}
	if result.Dimension != model.DimensionTag {
		t.Fatalf("expected default dimension tag, got %s", result.Dimension)
	}
	if result.Slices == nil {
		t.Fatal("expected empty slices, got nil")
	}
}

func TestSummarizeFiltersByDateAndZeroSeconds(t *testing.T) {
	runs := []model.FocusRun{
		run("2024-03-03", model.RunStatusCompleted, 600),
		run("2024-03-11", model.RunStatusCompleted, 600),
		run("2024-03-06", model.RunStatusCompleted, 0),
		run("2024-03-06", model.RunStatusRunning, 0),
	}
	result := Summarize(runs, nil, "2024-03-04", "2024-03-10", model.DimensionTag)
	if result.Summary.TotalRuns != 2 {
		t.Fatalf("expected 2 runs in range, got %d", result.Summary.TotalRuns)
	}
	if result.Summary.CompletedRuns != 0 || result.Summary.TotalFocusMinutes != 0 {
		t.Fatalf("expected nothing counted, got %+v", result.Summary)
	}
	if len(result.Slices) != 0 {
		t.Fatalf("expected no slices, got %+v", result.Slices)
	}
}

func TestSummarizeDimensions(t *testing.T) {
	known := "tpl-1"
	dangling := "tpl-gone"
	runs := []model.FocusRun{
		{Date: "2024-03-04", Status: model.RunStatusCompleted, ActualSeconds: 600, TimerType: model.TimerTypeCountdown},
		{Date: "2024-03-04", Status: model.RunStatusCompleted, ActualSeconds: 1800, TemplateID: &known, TimerType: model.TimerTypePomodoro},
		{Date: "2024-03-04", Status: model.RunStatusCompleted, ActualSeconds: 600, TemplateID: &dangling},
	}
	names := map[string]string{known: "Deep work"}

	byTemplate := Summarize(runs, names, "2024-03-04", "2024-03-04", model.DimensionTemplate)
	if len(byTemplate.Slices) != 2 {
		t.Fatalf("expected 2 template slices, got %+v", byTemplate.Slices)
	}
	if byTemplate.Slices[0].Key != "Deep work" || byTemplate.Slices[1].Key != UnlinkedKey {
		t.Fatalf("unexpected template slices %+v", byTemplate.Slices)
	}
	if byTemplate.Slices[1].Minutes != 20 || byTemplate.Slices[1].Runs != 2 {
		t.Fatalf("expected unlinked bucket to merge dangling ids, got %+v", byTemplate.Slices[1])
	}

	byTimer := Summarize(runs, names, "2024-03-04", "2024-03-04", model.DimensionTimerType)
	keys := []string{byTimer.Slices[0].Key, byTimer.Slices[1].Key, byTimer.Slices[2].Key}
	if keys[0] != model.TimerTypePomodoro || keys[1] != model.TimerTypeCountdown || keys[2] != UnknownKey {
		t.Fatalf("unexpected timer slices %v", keys)
	}
	if byTimer.Slices[0].Percent != 60 {
		t.Fatalf("expected 60 percent, got %v", byTimer.Slices[0].Percent)
	}

	byTag := Summarize(runs, names, "2024-03-04", "2024-03-04", "bogus")
	if byTag.Dimension != model.DimensionTag || byTag.Slices[0].Key != UntaggedKey {
		t.Fatalf("unexpected tag fallback %+v", byTag)
	}
}
