package domain

import "time"

type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

// DisplayLabel is the human-facing wording printed on reports.
func (r RiskLevel) DisplayLabel() string {
	switch r {
	case RiskLow:
		return "Low Risk - Likely Benign"
	case RiskMedium:
		return "Medium Risk - Monitor"
	case RiskHigh:
		return "High Risk - Seek Medical Advice"
	default:
		return "Unknown Risk - Review Required"
	}
}

// AssessmentResult is the analyzer verdict for one image.
// Recognized=false means the model reply carried no usable risk keyword
// and Risk degraded to unknown with the raw reply kept as Explanation.
type AssessmentResult struct {
	Risk        RiskLevel `json:"risk"`
	Explanation string    `json:"explanation"`
	Recognized  bool      `json:"recognized"`
	Model       string    `json:"model,omitempty"`
}

type Report struct {
	RequestID string           `json:"request_id"`
	Filename  string           `json:"filename"`
	Path      string           `json:"path"`
	Result    AssessmentResult `json:"result"`
	CreatedAt time.Time        `json:"created_at"`
}
