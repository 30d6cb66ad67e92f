package analyzer

import (
	"regexp"
	"strconv"
	"strings"
)

// Tolerant extraction of structure from free-form model output. The
// model is asked for RECOMMENDATION/CONFIDENCE footer lines but is not
// trusted to produce them; anything unparseable degrades to
// UNKNOWN / 0.0 rather than failing.

var (
	recommendationLine = regexp.MustCompile(`(?im)^\s*\**\s*recommendation\s*\**\s*[:\-]\s*(.+)$`)
	confidencePercent  = regexp.MustCompile(`(?i)confidence[^0-9]{0,40}?([0-9]+(?:\.[0-9]+)?)\s*%`)
	confidenceDecimal  = regexp.MustCompile(`(?i)confidence[^0-9]{0,40}?(0?\.[0-9]+|1\.0|[01])(?:\s|$|[^0-9.%])`)
	goWord             = regexp.MustCompile(`\bgo\b`)
)

// ParseRecommendation extracts a recommendation label from model
// output. An explicit RECOMMENDATION line wins; otherwise the first
// match from a small fixed vocabulary decides.
func ParseRecommendation(text string) Recommendation {
	if m := recommendationLine.FindStringSubmatch(text); m != nil {
		if rec, ok := matchVocabulary(m[1]); ok {
			return rec
		}
	}
	if rec, ok := matchVocabulary(text); ok {
		return rec
	}
	return Unknown
}

// matchVocabulary applies the fixed vocabulary in conservative order:
// NO-GO phrasing is checked before GO phrasing so "no-go" never
// matches as "go".
func matchVocabulary(text string) (Recommendation, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "no-go"),
		strings.Contains(lower, "no go"),
		strings.Contains(lower, "do not greenlight"),
		strings.Contains(lower, "pass on this"):
		return NoGo, true
	case strings.Contains(lower, "conditional"):
		return Conditional, true
	case strings.Contains(lower, "greenlight"),
		strings.Contains(lower, "go ahead"),
		strings.Contains(lower, "recommend proceeding"),
		goWord.MatchString(lower):
		return Go, true
	}
	return Unknown, false
}

// ParseConfidence extracts a confidence score, accepting either a
// percentage ("confidence: 75%") or a decimal ("confidence of 0.75").
// Absent or malformed values yield 0. The result is always clamped to
// [0, 1].
func ParseConfidence(text string) float64 {
	if m := confidencePercent.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return Clamp(v / 100)
		}
	}
	if m := confidenceDecimal.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return Clamp(v)
		}
	}
	return 0
}

// Clamp bounds a confidence value to [0, 1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ExtractSummary pulls an executive summary out of synthesis output:
// the lines following an "executive summary" heading when present,
// otherwise the first substantial paragraph.
func ExtractSummary(text string) string {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), "executive summary") {
			continue
		}
		var picked []string
		for j := i + 1; j < len(lines) && j < i+6; j++ {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				if len(picked) > 0 {
					break
				}
				continue
			}
			picked = append(picked, trimmed)
		}
		if len(picked) > 0 {
			return strings.Join(picked, " ")
		}
	}

	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); len(trimmed) > 50 {
			return trimmed
		}
	}
	return "See full analysis for details."
}
