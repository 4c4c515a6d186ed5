package types

import "github.com/m-mizutani/goerr/v2"

// Tags classifying failures surfaced by a capture.
var (
	// ErrTagProcess marks a non-zero exit of the capture tool
	ErrTagProcess = goerr.NewTag("process_failure")

	// ErrTagAuth marks a capture that turned out to be a login page
	ErrTagAuth = goerr.NewTag("authentication_failure")

	// ErrTagTimeout marks a capture that produced no readable output in time
	ErrTagTimeout = goerr.NewTag("timeout_failure")

	// ErrTagInvalidRequest marks a request rejected before launching the tool
	ErrTagInvalidRequest = goerr.NewTag("invalid_request")
)
