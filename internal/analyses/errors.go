package analyses

import "errors"

var (
	ErrMissingInput      = errors.New("missing input")
	ErrReferenceNotFound = errors.New("referenced CV not found")
	ErrInProgress        = errors.New("analysis already in progress")
	ErrAlreadyCompleted  = errors.New("analysis already completed")
	ErrStaleAttempt      = errors.New("analysis was reset")
)

const (
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeInProgress  = "IN_PROGRESS"
	ErrorCodeStorage     = "STORAGE_ERROR"
	ErrorCodeLLMTimeout  = "LLM_TIMEOUT"
	ErrorCodeLLMFailure  = "LLM_FAILURE"
	ErrorCodeInternal    = "INTERNAL_ERROR"
	ErrorCodeUnsupported = "UNSUPPORTED_DOCUMENT"
	ErrorCodeReset       = "WORKFLOW_RESET"
	ErrorCodeCanceled    = "REQUEST_CANCELED"
)

// StatusClientClosedRequest is the nginx convention for a caller that went
// away before the response.
const StatusClientClosedRequest = 499
