package srs

import (
	"testing"
	"time"
)

var today = time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)

func TestCorrectStreakNeverShrinksInterval(t *testing.T) {
	s := NewScheduler(DefaultParams())
	state := State{EaseFactor: 2.5}

	wantFirst := []int{1, 6}
	prev := 0
	for i := 0; i < 8; i++ {
		state = s.Apply(state, true, today)
		if i < len(wantFirst) && state.Interval != wantFirst[i] {
			t.Fatalf("review %d: expected interval %d, got %d", i+1, wantFirst[i], state.Interval)
		}
		if state.Interval < prev {
			t.Fatalf("review %d: interval shrank from %d to %d", i+1, prev, state.Interval)
		}
		prev = state.Interval
	}
	if state.ReviewCount != 8 || state.CorrectCount != 8 {
		t.Fatalf("unexpected counters %+v", state)
	}
	if state.EaseFactor != 2.9 {
		t.Fatalf("expected ease 2.9 after 8 correct answers, got %v", state.EaseFactor)
	}
}

func TestThirdCorrectAnswerScalesByEase(t *testing.T) {
	s := NewScheduler(DefaultParams())
	state := State{ReviewCount: 2, CorrectCount: 2, EaseFactor: 2.6, Interval: 6}

	next := s.Apply(state, true, today)
	// 6 * 2.65 = 15.9
	if next.Interval != 16 {
		t.Fatalf("expected interval 16, got %d", next.Interval)
	}
	if next.NextReview != "2024-03-20" {
		t.Fatalf("expected next review 2024-03-20, got %s", next.NextReview)
	}
}

func TestWrongAnswerResetsInterval(t *testing.T) {
	s := NewScheduler(DefaultParams())
	state := State{ReviewCount: 5, CorrectCount: 5, EaseFactor: 2.5, Interval: 40}

	next := s.Apply(state, false, today)
	if next.Interval != 1 {
		t.Fatalf("expected interval reset to 1, got %d", next.Interval)
	}
	if next.EaseFactor != 2.3 {
		t.Fatalf("expected ease 2.3, got %v", next.EaseFactor)
	}
	if next.CorrectCount != 5 || next.ReviewCount != 6 {
		t.Fatalf("unexpected counters %+v", next)
	}
	if next.NextReview != "2024-03-05" {
		t.Fatalf("expected next review tomorrow, got %s", next.NextReview)
	}
}

func TestEaseFloor(t *testing.T) {
	s := NewScheduler(DefaultParams())
	state := State{EaseFactor: 1.35}
	for i := 0; i < 5; i++ {
		state = s.Apply(state, false, today)
		if state.EaseFactor < 1.3 {
			t.Fatalf("ease dropped below floor: %v", state.EaseFactor)
		}
	}
	if state.EaseFactor != 1.3 {
		t.Fatalf("expected ease clamped to 1.3, got %v", state.EaseFactor)
	}
}

func TestZeroEaseStartsFromInitial(t *testing.T) {
	s := NewScheduler(DefaultParams())
	next := s.Apply(State{}, true, today)
	if next.EaseFactor != 2.55 {
		t.Fatalf("expected ease 2.55, got %v", next.EaseFactor)
	}
}
