package model

import "time"

const (
	ReviewItemPending = "pending"
	ReviewItemDone    = "done"
)

// SnapshotTitleLength bounds the summary captured into title_snapshot.
const SnapshotTitleLength = 48

type WeeklyReviewItem struct {
	ID              string     `json:"id"`
	WeekStart       string     `json:"week_start"`
	WeekEnd         string     `json:"week_end"`
	WrongQuestionID string     `json:"wrong_question_id"`
	TitleSnapshot   string     `json:"title_snapshot"`
	Status          string     `json:"status"`
	CarriedFromWeek *string    `json:"carried_from_week"`
	CompletedAt     *time.Time `json:"completed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Read-side only: live summary of the referenced question, or the
	// snapshot when the question no longer exists.
	DisplayTitle    string `json:"display_title,omitempty"`
	QuestionMissing bool   `json:"question_missing,omitempty"`
}
