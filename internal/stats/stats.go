// Package stats aggregates focus runs into summaries and per-dimension slices.
package stats

import (
	"cmp"
	"slices"

	"studydesk/backend/internal/model"
)

const (
	UntaggedKey = "untagged"
	UnlinkedKey = "unlinked"
	UnknownKey  = "unknown"
)

// NormalizeDimension maps unknown dimensions to tag.
func NormalizeDimension(dimension string) string {
	switch dimension {
	case model.DimensionTemplate, model.DimensionTimerType:
		return dimension
	default:
		return model.DimensionTag
	}
}

// Counted reports whether a run contributes focus time.
func Counted(run model.FocusRun) bool {
	return run.Status == model.RunStatusCompleted && run.ActualSeconds > 0
}

// Summarize aggregates the runs dated within [start, end]. templateNames maps
// template ids to display names; ids missing from it are treated as unlinked.
func Summarize(runs []model.FocusRun, templateNames map[string]string, start, end, dimension string) model.FocusStatsResult {
	dimension = NormalizeDimension(dimension)
	result := model.FocusStatsResult{
		StartDate: start,
		EndDate:   end,
		Dimension: dimension,
		Slices:    []model.FocusStatsSlice{},
	}

	var totalSeconds int64
	buckets := map[string]*bucket{}
	order := []string{}

	for _, run := range runs {
		if run.Date < start || run.Date > end {
			continue
		}
		result.Summary.TotalRuns++
		if !Counted(run) {
			continue
		}
		result.Summary.CompletedRuns++
		totalSeconds += int64(run.ActualSeconds)

		for _, key := range keysFor(run, templateNames, dimension) {
			b, ok := buckets[key]
			if !ok {
				b = &bucket{key: key}
				buckets[key] = b
				order = append(order, key)
			}
			b.seconds += int64(run.ActualSeconds)
			b.runs++
		}
	}

	// Rates are left unrounded; presentation rounds.
	totalMinutes := totalSeconds / 60
	result.Summary.TotalFocusMinutes = totalMinutes
	if result.Summary.TotalRuns > 0 {
		result.Summary.CompletionRate = float64(result.Summary.CompletedRuns) / float64(result.Summary.TotalRuns) * 100
	}

	for _, key := range order {
		b := buckets[key]
		slice := model.FocusStatsSlice{Key: b.key, Minutes: b.seconds / 60, Runs: b.runs}
		if totalMinutes > 0 {
			slice.Percent = float64(slice.Minutes) / float64(totalMinutes) * 100
		}
		result.Slices = append(result.Slices, slice)
	}
	slices.SortStableFunc(result.Slices, func(a, b model.FocusStatsSlice) int {
		return cmp.Compare(b.Minutes, a.Minutes)
	})

	return result
}

type bucket struct {
	key     string
	seconds int64
	runs    int64
}

func keysFor(run model.FocusRun, templateNames map[string]string, dimension string) []string {
	switch dimension {
	case model.DimensionTemplate:
		if run.TemplateID != nil {
			if name, ok := templateNames[*run.TemplateID]; ok && name != "" {
				return []string{name}
			}
		}
		return []string{UnlinkedKey}
	case model.DimensionTimerType:
		if run.TimerType == "" {
			return []string{UnknownKey}
		}
		return []string{run.TimerType}
	default:
		tags := model.NormalizeTags(run.Tags)
		if len(tags) == 0 {
			return []string{UntaggedKey}
		}
		return tags
	}
}
