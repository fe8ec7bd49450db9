// Package normalize reconciles per-site field variance into the common offer
// shape: text cleanup, skill-tag noise filtering and locality joining.
package normalize

import (
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/unicode/norm"
)

var nbspReplacer = strings.NewReplacer(" ", " ")

// CleanText normalizes a raw DOM text node: NFC form, non-breaking spaces
// collapsed to plain ones, surrounding whitespace trimmed.
func CleanText(s string) string {
	s = norm.NFC.String(nbspReplacer.Replace(s))
	return strings.TrimSpace(s)
}

// Skill chips on JustJoin.it mix genuine tags with UI chrome. Patterns are
// anchored full phrases so a real technology named "new-thing" survives.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^new$`),
	regexp.MustCompile(`(?i)^1-click apply$`),
	regexp.MustCompile(`(?i)^\d+d left$`),
	regexp.MustCompile(`(?i)^expires tomorrow$`),
}

func isNoise(tag string) bool {
	for _, pattern := range noisePatterns {
		if pattern.MatchString(tag) {
			return true
		}
	}
	return false
}

// FilterSkills drops empty and UI-noise tags. Filtering is idempotent.
func FilterSkills(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = CleanText(tag)
		if tag == "" || isNoise(tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// JoinSkills renders a tag list as the comma-joined skills field.
func JoinSkills(tags []string) string {
	return strings.Join(tags, ", ")
}

// PrimaryLocality keeps only the text before the first comma. Listing cards
// suffix a "+N more" count after the primary locality.
func PrimaryLocality(raw string) string {
	raw = CleanText(raw)
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

// JoinLocalities dedupes and sorts locality names and joins them with ", ".
// The output is deterministic regardless of input ordering.
func JoinLocalities(localities []string) string {
	set := mapset.NewSet[string]()
	for _, loc := range localities {
		if loc = CleanText(loc); loc != "" {
			set.Add(loc)
		}
	}
	names := set.ToSlice()
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// SplitLines breaks a popover's plain text into cleaned, non-empty lines.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = CleanText(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
