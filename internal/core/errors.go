package core

import "errors"

// Sentinel errors returned by port implementations.
var (
	// ErrFileJobNotFound is returned when no record matches the job id and file name.
	ErrFileJobNotFound = errors.New("file job not found")
	// ErrJobNotRunning is returned when a terminal write targets a record that is already terminal.
	ErrJobNotRunning = errors.New("file job is not running")
	// ErrPartnerConfigNotFound is returned when no partner configuration document is stored.
	ErrPartnerConfigNotFound = errors.New("partner configuration not found")
	// ErrObjectNotFound is returned when an object key does not exist.
	ErrObjectNotFound = errors.New("object not found")
)
