package domain

import "time"

type SubmissionStatus string

const (
	SubmissionQueued     SubmissionStatus = "queued"
	SubmissionProcessing SubmissionStatus = "processing"
	SubmissionDone       SubmissionStatus = "done"
	SubmissionFailed     SubmissionStatus = "failed"
)

// Submission is a queued assessment request. The image payload lives in
// object storage under StorageKey; the row tracks lifecycle and outcome.
type Submission struct {
	ID          string           `json:"id"`
	Filename    string           `json:"filename"`
	MimeType    string           `json:"mime_type"`
	StorageKey  string           `json:"storage_key"`
	Status      SubmissionStatus `json:"status"`
	Risk        RiskLevel        `json:"risk,omitempty"`
	Explanation string           `json:"explanation,omitempty"`
	ReportPath  string           `json:"report_path,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
