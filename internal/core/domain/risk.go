package domain

import (
	"regexp"
	"strings"
)

var (
	highPattern   = regexp.MustCompile(`(?i)\bhigh\b`)
	mediumPattern = regexp.MustCompile(`(?i)\b(medium|moderate)\b`)
	lowPattern    = regexp.MustCompile(`(?i)\blow\b`)
)

// ParseRiskReply maps a free-text model reply onto a risk level.
// Precedence is high over medium over low so a reply naming several
// levels resolves to the most severe one. A reply with no recognizable
// keyword degrades to RiskUnknown instead of failing; the raw text is
// kept so the report can still show what the model said.
func ParseRiskReply(raw string) AssessmentResult {
	text := strings.TrimSpace(raw)

	result := AssessmentResult{
		Explanation: text,
		Recognized:  true,
	}

	switch {
	case highPattern.MatchString(text):
		result.Risk = RiskHigh
	case mediumPattern.MatchString(text):
		result.Risk = RiskMedium
	case lowPattern.MatchString(text):
		result.Risk = RiskLow
	default:
		result.Risk = RiskUnknown
		result.Recognized = false
	}

	return result
}
