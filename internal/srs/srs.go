// Package srs schedules spaced-repetition reviews with an SM-2 style ease
// factor and a doubling-by-ease interval.
package srs

import (
	"math"
	"time"

	"studydesk/backend/internal/week"
)

type Params struct {
	CorrectBonus     float64
	IncorrectPenalty float64
	MinEase          float64
	InitialEase      float64
	FirstInterval    int
	SecondInterval   int
}

func DefaultParams() Params {
	return Params{
		CorrectBonus:     0.05,
		IncorrectPenalty: 0.2,
		MinEase:          1.3,
		InitialEase:      2.5,
		FirstInterval:    1,
		SecondInterval:   6,
	}
}

// State is the scheduling part of a reviewable record.
type State struct {
	ReviewCount  int
	CorrectCount int
	EaseFactor   float64
	Interval     int
	NextReview   string
}

type Scheduler struct {
	params Params
}

func NewScheduler(params Params) *Scheduler {
	if params.MinEase <= 0 {
		params.MinEase = DefaultParams().MinEase
	}
	if params.InitialEase < params.MinEase {
		params.InitialEase = params.MinEase
	}
	if params.FirstInterval < 1 {
		params.FirstInterval = 1
	}
	if params.SecondInterval < params.FirstInterval {
		params.SecondInterval = params.FirstInterval
	}
	return &Scheduler{params: params}
}

func (s *Scheduler) Params() Params {
	return s.params
}

// Apply records one answer against state and returns the next state.
// today anchors next_review; only its calendar date is used.
func (s *Scheduler) Apply(state State, isCorrect bool, today time.Time) State {
	next := state
	if next.EaseFactor <= 0 {
		next.EaseFactor = s.params.InitialEase
	}
	next.ReviewCount++

	if isCorrect {
		next.CorrectCount++
		next.EaseFactor += s.params.CorrectBonus
		switch next.ReviewCount {
		case 1:
			next.Interval = s.params.FirstInterval
		case 2:
			next.Interval = s.params.SecondInterval
		default:
			grown := int(math.Round(float64(state.Interval) * next.EaseFactor))
			next.Interval = max(grown, state.Interval, 1)
		}
	} else {
		next.EaseFactor -= s.params.IncorrectPenalty
		next.Interval = 1
	}

	if next.EaseFactor < s.params.MinEase {
		next.EaseFactor = s.params.MinEase
	}
	next.EaseFactor = math.Round(next.EaseFactor*1000) / 1000

	next.NextReview = week.FormatDay(today.AddDate(0, 0, next.Interval))
	return next
}
