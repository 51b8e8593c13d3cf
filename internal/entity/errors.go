package entity

import "errors"

// Domain errors
var (
	// Pipeline run errors
	ErrRunNotFound      = errors.New("pipeline run not found")
	ErrInvalidRunStatus = errors.New("invalid run status for this operation")
	ErrRunBusy          = errors.New("a remote operation is already in flight for this run")
	ErrNoResult         = errors.New("generation result not available")

	// Browser errors
	ErrBrowserNotFound      = errors.New("browser session not found")
	ErrInvalidBrowserStatus = errors.New("invalid browser status for this operation")
	ErrRepositoryNotFound   = errors.New("repository not found in session")

	// Validation errors (rejected locally, never sent over the network)
	ErrEmptyQuery     = errors.New("query must not be empty")
	ErrMissingToken   = errors.New("github token is required")
	ErrEmptySelection = errors.New("at least one repository must be selected")
	ErrMissingField   = errors.New("required field is missing")
	ErrInvalidFormat  = errors.New("invalid format")
)
