package docs

import "errors"

// Service-side errors surfaced by Submit and GetStatus.
var (
	// ErrJobNotFound is returned when a status lookup names an unknown job id.
	ErrJobNotFound = errors.New("documentation job not found")

	// ErrNoFeatures is returned when the target project references no
	// features, so there is nothing to document.
	ErrNoFeatures = errors.New("project has no features to document")

	// ErrQueueFull is returned when the worker queue cannot accept another
	// job. The pending row is failed before this is surfaced.
	ErrQueueFull = errors.New("generation queue is full")
)

// Client-side errors surfaced by the polling workflow. Each phase of
// GenerateAndDownload wraps its cause in exactly one of these, so callers can
// tell a rejected submission from a failed render from an exhausted poll
// budget.
var (
	// ErrSubmission wraps any failure to submit the generation request.
	ErrSubmission = errors.New("manual generation request failed")

	// ErrStatusCheck wraps transport or HTTP failures while reading the job
	// status mid-poll, after the submission was already accepted.
	ErrStatusCheck = errors.New("manual status check failed")

	// ErrJobFailed wraps the server-reported reason when the job reaches the
	// failed state.
	ErrJobFailed = errors.New("manual generation failed")

	// ErrPollTimeout is returned when the poll budget is exhausted before the
	// job reaches a terminal state.
	ErrPollTimeout = errors.New("manual generation timed out")

	// ErrDownload wraps any failure to fetch the finished document.
	ErrDownload = errors.New("manual download failed")
)
