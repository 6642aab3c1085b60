package model

import "time"

const (
	QuestionTypeChoice = "choice"

	ChoiceOptionCount = 4
)

type QuizQuestion struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Type        string    `json:"type"`
	Stem        string    `json:"stem"`
	Options     []string  `json:"options"`
	Answer      string    `json:"answer"`
	Explanation string    `json:"explanation"`
	Difficulty  int       `json:"difficulty"`
	ReviewCount int       `json:"review_count"`
	CorrectCnt  int       `json:"correct_count"`
	EaseFactor  float64   `json:"ease_factor"`
	Interval    int       `json:"interval"`
	NextReview  *string   `json:"next_review"`
	CreatedAt   time.Time `json:"created_at"`
}

type QuizQuestionInput struct {
	Subject     string   `json:"subject"`
	Type        string   `json:"type"`
	Stem        string   `json:"stem"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Difficulty  int      `json:"difficulty"`
}

const (
	MasteryUnknown  = 0
	MasteryVague    = 1
	MasteryBasic    = 2
	MasteryMastered = 3
)

type WrongQuestion struct {
	ID              string    `json:"id"`
	Subject         string    `json:"subject"`
	Tags            []string  `json:"tags"`
	QuestionContent string    `json:"question_content"`
	AISolution      string    `json:"ai_solution"`
	UserNote        string    `json:"user_note"`
	Difficulty      int       `json:"difficulty"`
	MasteryLevel    int       `json:"mastery_level"`
	ReviewCount     int       `json:"review_count"`
	EaseFactor      float64   `json:"ease_factor"`
	IntervalDays    int       `json:"interval_days"`
	NextReviewDate  *string   `json:"next_review_date"`
	LastReviewDate  *string   `json:"last_review_date"`
	IsArchived      bool      `json:"is_archived"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type WrongQuestionInput struct {
	Subject         string   `json:"subject"`
	Tags            []string `json:"tags"`
	QuestionContent string   `json:"question_content"`
	AISolution      string   `json:"ai_solution"`
	UserNote        string   `json:"user_note"`
	Difficulty      int      `json:"difficulty"`
}

type WrongQuestionFilter struct {
	Archived bool
	Subject  string
}

type WrongQuestionStats struct {
	Active    int         `json:"active"`
	Archived  int         `json:"archived"`
	Due       int         `json:"due"`
	ByMastery map[int]int `json:"by_mastery"`
}
