package loader

import "errors"

var (
	// ErrSchemeUnsupported is returned for source URLs no loader can read.
	ErrSchemeUnsupported = errors.New("unsupported scheme")

	// ErrScriptNotAvailable is returned when there is no script to load.
	ErrScriptNotAvailable = errors.New("script not available")

	// ErrInvalidEncoding is returned for source that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("script is not valid UTF-8")

	// ErrLoaderNil is returned when a nil loader is used.
	ErrLoaderNil = errors.New("loader is nil")
)
