package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Batch controller command errors
	ErrRunActive     = fmt.Errorf("batch run already active")
	ErrNotProcessing = fmt.Errorf("no batch run in progress")
	ErrNotPaused     = fmt.Errorf("batch run is not paused")
	ErrRunTerminal   = fmt.Errorf("batch run already finished")

	// Lookup and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNoMatch            = fmt.Errorf("no metadata match found")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Catalog and review errors
	ErrItemNotFound      = fmt.Errorf("item not found")
	ErrInvalidTransition = fmt.Errorf("invalid status transition")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
