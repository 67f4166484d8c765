package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"unicode/utf8"

	"github.com/robbyt/go-jscore/internal/helpers"
)

// FromIoReader loads a script from an io.Reader. The reader is consumed
// once, when the loader is created.
type FromIoReader struct {
	content   []byte
	sourceURL *url.URL
}

// NewFromIoReader reads all of reader. sourceName becomes the host of the
// reader:// source URL.
func NewFromIoReader(reader io.Reader, sourceName string) (*FromIoReader, error) {
	if reader == nil {
		return nil, fmt.Errorf("%w: reader is nil", ErrScriptNotAvailable)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: content is empty or contains only whitespace", ErrScriptNotAvailable)
	}
	if !utf8.Valid(content) {
		return nil, ErrInvalidEncoding
	}

	if sourceName == "" {
		sourceName = "unnamed"
	}
	return &FromIoReader{
		content: content,
		sourceURL: &url.URL{
			Scheme: "reader",
			Host:   sourceName,
			Path:   "/" + helpers.SHA256Bytes(content)[:8],
		},
	}, nil
}

func (l *FromIoReader) String() string {
	return fmt.Sprintf("loader.FromIoReader{Bytes: %d, Source: %s}", len(l.content), l.sourceURL)
}

// GetReader returns a reader over the content read at creation.
func (l *FromIoReader) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.content)), nil
}

// GetSourceURL returns the reader:// URL of the content.
func (l *FromIoReader) GetSourceURL() *url.URL {
	return l.sourceURL
}
