package chapters

import (
	"regexp"
	"sort"
	"unicode/utf8"
)

const (
	maxChapters   = 20
	maxLabelRunes = 10
)

// The four marker kinds found in Chinese novel text. All matches are
// normalized to the 第…章 form for display.
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`第(.*?)章`),
	regexp.MustCompile(`第(.*?)回`),
	regexp.MustCompile(`第(.*?)集`),
	regexp.MustCompile(`第(.*?)卷`),
}

// Extract scans content for chapter markers and returns up to 20 distinct
// labels in lexicographic order. Labels of 10 or more runes are discarded as
// false positives. The list is recomputed in full on every call.
func Extract(content string) []string {
	seen := make(map[string]struct{})
	for _, re := range markerPatterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			label := m[1]
			if utf8.RuneCountInString(label) >= maxLabelRunes {
				continue
			}
			seen["第"+label+"章"] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)

	if len(out) > maxChapters {
		out = out[:maxChapters]
	}
	return out
}
