package service

import (
	"time"

	apperrors "studydesk/backend/internal/errors"
	"studydesk/backend/internal/week"
)

func systemNow() time.Time {
	return time.Now()
}

func today(now func() time.Time) string {
	return week.Today(now())
}

// resolveRange fills a missing end with today and a missing start with the
// six days before end.
func resolveRange(start, end string, now time.Time) (string, string, *apperrors.APIError) {
	if end == "" {
		end = week.Today(now)
	}
	endDay, err := week.ParseDay(end)
	if err != nil {
		return "", "", apperrors.BadRequest("invalid_end_date", err.Error())
	}
	if start == "" {
		start = week.FormatDay(endDay.AddDate(0, 0, -6))
	}
	startDay, err := week.ParseDay(start)
	if err != nil {
		return "", "", apperrors.BadRequest("invalid_start_date", err.Error())
	}
	if startDay.After(endDay) {
		return "", "", apperrors.BadRequest("invalid_range", "start_date must not be after end_date")
	}
	return week.FormatDay(startDay), week.FormatDay(endDay), nil
}
