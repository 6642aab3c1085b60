package model

import (
	"strings"
	"unicode/utf8"
)

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping first-seen order. It never returns nil.
func NormalizeTags(tags []string) []string {
	clean := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		clean = append(clean, trimmed)
	}
	return clean
}

// SplitTags parses a comma separated tag list.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(raw, ","))
}

var markdownNoise = strings.NewReplacer(
	"#", "",
	"*", "",
	"`", "",
	"$", "",
	">", "",
	"_", "",
	"\\(", "",
	"\\)", "",
	"\\[", "",
	"\\]", "",
)

// SummarizeQuestion reduces markdown question content to a single line of at
// most maxRunes runes, ending with an ellipsis when truncated.
func SummarizeQuestion(content string, maxRunes int) string {
	line := ""
	for _, candidate := range strings.Split(content, "\n") {
		cleaned := strings.Join(strings.Fields(markdownNoise.Replace(candidate)), " ")
		if cleaned != "" {
			line = cleaned
			break
		}
	}
	if maxRunes <= 0 || utf8.RuneCountInString(line) <= maxRunes {
		return line
	}
	runes := []rune(line)
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}
