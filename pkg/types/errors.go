package types

import "errors"

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrProgressNotFound = errors.New("assessment progress not found")
	ErrResultNotFound   = errors.New("assessment result not found")
)

// Input boundary errors. Answers that fail with one of these never reach
// the response draft.
var (
	ErrInvalidAnswer   = errors.New("invalid answer")
	ErrUnknownQuestion = errors.New("unknown exemption question")
	ErrWrongQuestion   = errors.New("question is not the current question")
	ErrUnknownField    = errors.New("unknown work situation field")
	ErrFieldNotOnStep  = errors.New("field is not asked on the current step")
	ErrUnanswered      = errors.New("current step has not been answered")
)

// Flow errors.
var (
	ErrNotStarted         = errors.New("assessment has not been started")
	ErrAssessmentComplete = errors.New("assessment is already complete")
	ErrNotReady           = errors.New("assessment is not ready to finalize")
	ErrNoPreviousStep     = errors.New("no previous step")
	ErrPersistFinalize    = errors.New("failed to persist assessment result")
)
