package model

import "time"

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusDone       = "done"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	TimerTypeNone      = "none"
	TimerTypePomodoro  = "pomodoro"
	TimerTypeCountdown = "countdown"
)

const (
	DefaultTaskStartTime     = "09:00"
	DefaultTaskDurationHours = 1.0
	DefaultTimerMinutes      = 25
)

type Task struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	Duration      float64   `json:"duration"`
	Tags          []string  `json:"tags"`
	TimerType     string    `json:"timer_type"`
	TimerDuration int       `json:"timer_duration"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TaskPatch carries a partial task update; nil fields are left unchanged.
type TaskPatch struct {
	Title         *string   `json:"title,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Status        *string   `json:"status,omitempty"`
	Priority      *string   `json:"priority,omitempty"`
	Date          *string   `json:"date,omitempty"`
	StartTime     *string   `json:"start_time,omitempty"`
	Duration      *float64  `json:"duration,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	TimerType     *string   `json:"timer_type,omitempty"`
	TimerDuration *int      `json:"timer_duration,omitempty"`
}

// Apply copies the set fields of p onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.Tags != nil {
		t.Tags = NormalizeTags(*p.Tags)
	}
	if p.TimerType != nil {
		t.TimerType = *p.TimerType
	}
	if p.TimerDuration != nil {
		t.TimerDuration = *p.TimerDuration
	}
}

func IsValidTaskStatus(status string) bool {
	return status == TaskStatusTodo || status == TaskStatusInProgress || status == TaskStatusDone
}

func IsValidPriority(priority string) bool {
	return priority == PriorityLow || priority == PriorityMedium || priority == PriorityHigh
}

func IsValidTaskTimerType(timerType string) bool {
	return timerType == TimerTypeNone || IsValidFocusTimerType(timerType)
}

func IsValidFocusTimerType(timerType string) bool {
	return timerType == TimerTypePomodoro || timerType == TimerTypeCountdown
}
