// Package loader reads script source from strings, bytes, files and
// readers. Every loader names its source with a URL, which the evaluator
// passes to the engine so stack traces point at the script.
package loader

import (
	"io"
	"net/url"
)

// Loader provides the source of a script.
type Loader interface {
	// GetReader returns a new reader over the source. Callers close it.
	GetReader() (io.ReadCloser, error)

	// GetSourceURL names the source, such as file:///srv/app.js or
	// string://inline/3f2a9c1b.
	GetSourceURL() *url.URL
}
