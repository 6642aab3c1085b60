// Package realtime fans sync notifications out to connected clients. A Bus
// carries messages between server processes and a Hub delivers them to the
// SSE subscribers of one process.
package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sync actions name the collection a client should reload.
const (
	ActionSyncTasks             = "SYNC_TASKS"
	ActionSyncFocusRuns         = "SYNC_FOCUS_RUNS"
	ActionSyncFocusTemplates    = "SYNC_FOCUS_TEMPLATES"
	ActionSyncQuiz              = "SYNC_QUIZ"
	ActionSyncWrongQuestions    = "SYNC_WRONG_QUESTIONS"
	ActionSyncWeeklyReviewItems = "SYNC_WEEKLY_REVIEW_ITEMS"
)

type Message struct {
	Action   string    `json:"action"`
	ClientID string    `json:"client_id,omitempty"`
	SentAt   time.Time `json:"sent_at"`
}

// KnownAction reports whether action is one of the sync actions above.
func KnownAction(action string) bool {
	switch action {
	case ActionSyncTasks, ActionSyncFocusRuns, ActionSyncFocusTemplates,
		ActionSyncQuiz, ActionSyncWrongQuestions, ActionSyncWeeklyReviewItems:
		return true
	}
	return false
}

// decodeMessage parses a message received from another process.
func decodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, fmt.Errorf("decode sync message: %w", err)
	}
	if !KnownAction(msg.Action) {
		return Message{}, fmt.Errorf("unknown sync action %q", msg.Action)
	}
	return msg, nil
}
