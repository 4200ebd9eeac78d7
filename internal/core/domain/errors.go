package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidImage       = errors.New("invalid image")
	ErrAPIUnavailable     = errors.New("analyzer api unavailable")
	ErrRender             = errors.New("report render failure")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrTemporary          = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

type Stage string

const (
	StageIntake   Stage = "intake"
	StageAnalyzer Stage = "analyzer"
	StageReport   Stage = "report"
)

// StageError marks which pipeline stage a failure escaped from.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	if e == nil {
		return "stage error"
	}
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func TagStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

func StageOf(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return "", false
}
