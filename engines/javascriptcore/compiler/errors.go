package compiler

import "errors"

var (
	ErrContentNil         = errors.New("javascript content is nil")
	ErrExecCreationFailed = errors.New("unable to create javascript executable")
	ErrNoInstructions     = errors.New("javascript source has no statements")
	ErrValidationFailed   = errors.New("javascript script validation error")
)
