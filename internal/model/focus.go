package model

import (
	"strings"
	"time"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusAborted   = "aborted"
)

const (
	DimensionTag       = "tag"
	DimensionTemplate  = "template"
	DimensionTimerType = "timer_type"
)

// UntitledTemplateName names templates saved without any usable name.
const UntitledTemplateName = "Untitled"

type FocusTemplate struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	TimerType       string    `json:"timer_type"`
	DurationMinutes int       `json:"duration_minutes"`
	Tags            []string  `json:"tags"`
	LinkedTaskTitle *string   `json:"linked_task_title,omitempty"`
	ColorToken      *string   `json:"color_token,omitempty"`
	IsArchived      bool      `json:"is_archived"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type FocusTemplateInput struct {
	Name            string   `json:"name"`
	TimerType       string   `json:"timer_type"`
	DurationMinutes int      `json:"duration_minutes"`
	Tags            []string `json:"tags"`
	LinkedTaskTitle string   `json:"linked_task_title"`
	ColorToken      string   `json:"color_token"`
}

// Normalize applies the template defaults: the name falls back to the linked
// task title and then to UntitledTemplateName, the duration is at least one
// minute and tags are trimmed and de-duplicated.
func (in FocusTemplateInput) Normalize() FocusTemplateInput {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	out.LinkedTaskTitle = strings.TrimSpace(in.LinkedTaskTitle)
	out.ColorToken = strings.TrimSpace(in.ColorToken)
	if out.Name == "" {
		out.Name = out.LinkedTaskTitle
	}
	if out.Name == "" {
		out.Name = UntitledTemplateName
	}
	out.TimerType = strings.TrimSpace(in.TimerType)
	if out.TimerType == "" {
		out.TimerType = TimerTypePomodoro
	}
	if out.DurationMinutes < 1 {
		out.DurationMinutes = 1
	}
	out.Tags = NormalizeTags(in.Tags)
	return out
}

type FocusRun struct {
	ID             string     `json:"id"`
	ClientID       string     `json:"client_id,omitempty"`
	Source         string     `json:"source"`
	TemplateID     *string    `json:"template_id,omitempty"`
	TaskID         *string    `json:"task_id,omitempty"`
	TimerType      string     `json:"timer_type"`
	PlannedMinutes int        `json:"planned_minutes"`
	ActualSeconds  int        `json:"actual_seconds"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	Date           string     `json:"date"`
	Tags           []string   `json:"tags"`
	Note           *string    `json:"note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PlannedSeconds is the planned length of the run in seconds.
func (r FocusRun) PlannedSeconds() int {
	return r.PlannedMinutes * 60
}

// StartFocusRunPayload creates a running FocusRun. ID and StartedAt are
// optional; clients that project state locally send their own so retries of
// the same create stay idempotent.
type StartFocusRunPayload struct {
	ID             string     `json:"id,omitempty"`
	Source         string     `json:"source"`
	TemplateID     *string    `json:"template_id,omitempty"`
	TaskID         *string    `json:"task_id,omitempty"`
	TimerType      string     `json:"timer_type"`
	PlannedMinutes int        `json:"planned_minutes"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	Date           string     `json:"date,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Note           *string    `json:"note,omitempty"`
}

type FinishFocusRunPayload struct {
	ActualSeconds int        `json:"actual_seconds"`
	Status        string     `json:"status"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Note          *string    `json:"note,omitempty"`
}

type FocusRunQuery struct {
	StartDate string
	EndDate   string
	Status    string
}

type FocusStatsQuery struct {
	StartDate string
	EndDate   string
	Dimension string
}

type FocusStatsSummary struct {
	TotalFocusMinutes int64   `json:"total_focus_minutes"`
	CompletedRuns     int64   `json:"completed_runs"`
	TotalRuns         int64   `json:"total_runs"`
	CompletionRate    float64 `json:"completion_rate"`
}

type FocusStatsSlice struct {
	Key     string  `json:"key"`
	Minutes int64   `json:"minutes"`
	Runs    int64   `json:"runs"`
	Percent float64 `json:"percent"`
}

type FocusStatsResult struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Dimension string            `json:"dimension"`
	Summary   FocusStatsSummary `json:"summary"`
	Slices    []FocusStatsSlice `json:"slices"`
}

type WeeklyStats struct {
	StartDate           string             `json:"start_date"`
	EndDate             string             `json:"end_date"`
	TotalFocusMinutes   int64              `json:"total_focus_minutes"`
	CompletionRate      float64            `json:"completion_rate"`
	SubjectDistribution map[string]float64 `json:"subject_distribution"`
}
