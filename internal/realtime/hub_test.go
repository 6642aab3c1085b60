package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"studydesk/backend/internal/logger"
)

func recvMessage(t *testing.T, ch <-chan Message, timeout time.Duration) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for sync message")
	}
	return Message{}
}

func TestHubDeliversInOrderAndClosesOnUnsubscribe(t *testing.T) {
	hub := NewHub(logger.NewNop())
	sub := hub.Subscribe()

	hub.Broadcast(Message{Action: ActionSyncTasks})
	hub.Broadcast(Message{Action: ActionSyncFocusRuns})

	if got := recvMessage(t, sub.Outbound, time.Second); got.Action != ActionSyncTasks {
		t.Fatalf("first action: want=%s got=%s", ActionSyncTasks, got.Action)
	}
	if got := recvMessage(t, sub.Outbound, time.Second); got.Action != ActionSyncFocusRuns {
		t.Fatalf("second action: want=%s got=%s", ActionSyncFocusRuns, got.Action)
	}

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	if _, ok := <-sub.Outbound; ok {
		t.Fatal("expected outbound channel to be closed")
	}
	if hub.Len() != 0 {
		t.Fatalf("expected no subscribers, got %d", hub.Len())
	}
}

func TestHubDropsForLaggingSubscriber(t *testing.T) {
	hub := NewHub(nil)
	sub := hub.Subscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Broadcast(Message{Action: ActionSyncQuiz})
	}
	if len(sub.Outbound) != subscriberBuffer {
		t.Fatalf("expected buffer to cap at %d, got %d", subscriberBuffer, len(sub.Outbound))
	}
}

func TestMemoryBusForwardsToHub(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewMemoryBus()
	hub := NewHub(nil)
	if err := bus.StartForwarder(ctx, hub.Broadcast); err != nil {
		t.Fatalf("start forwarder: %v", err)
	}
	sub := hub.Subscribe()

	publisher := NewPublisher(bus, nil)
	publisher.Publish(ctx, ActionSyncWeeklyReviewItems, "client-1")

	got := recvMessage(t, sub.Outbound, time.Second)
	if got.Action != ActionSyncWeeklyReviewItems || got.ClientID != "client-1" || got.SentAt.IsZero() {
		t.Fatalf("unexpected message %+v", got)
	}

	if err := bus.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := bus.Publish(ctx, Message{Action: ActionSyncTasks}); err == nil {
		t.Fatal("expected publish on closed bus to fail")
	}
	// Publisher swallows the failure.
	publisher.Publish(ctx, ActionSyncTasks, "")
}

type failingBus struct{ Bus }

func (failingBus) Publish(context.Context, Message) error { return errors.New("redis down") }

func TestPublisherLogsFailures(t *testing.T) {
	publisher := NewPublisher(failingBus{}, logger.NewNop())
	publisher.Publish(context.Background(), ActionSyncTasks, "")

	var nilPublisher *Publisher
	nilPublisher.Publish(context.Background(), ActionSyncTasks, "")
}

func TestDecodeMessageRejectsUnknownActions(t *testing.T) {
	msg, err := decodeMessage([]byte(`{"action":"SYNC_QUIZ","client_id":"c1","sent_at":"2024-03-06T09:00:00Z"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Action != ActionSyncQuiz || msg.ClientID != "c1" {
		t.Fatalf("unexpected message %+v", msg)
	}

	for _, payload := range []string{`{"action":"DROP_TABLES"}`, `{"client_id":"c1"}`, `not json`} {
		if _, err := decodeMessage([]byte(payload)); err == nil {
			t.Fatalf("expected %s to be rejected", payload)
		}
	}
}
