package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"unicode/utf8"

	"github.com/robbyt/go-jscore/internal/helpers"
)

// FromBytes loads a script held in a byte slice.
type FromBytes struct {
	content   []byte
	sourceURL *url.URL
}

// NewFromBytes creates a loader for source held in memory. The content must
// be UTF-8 and contain more than whitespace.
func NewFromBytes(content []byte) (*FromBytes, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: content is empty or contains only whitespace", ErrScriptNotAvailable)
	}
	if !utf8.Valid(content) {
		return nil, ErrInvalidEncoding
	}

	return &FromBytes{
		content:   content,
		sourceURL: inlineURL("bytes", helpers.SHA256Bytes(content)),
	}, nil
}

func (l *FromBytes) String() string {
	return fmt.Sprintf("loader.FromBytes{Bytes: %d}", len(l.content))
}

// GetReader returns a reader over the content.
func (l *FromBytes) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.content)), nil
}

// GetSourceURL returns a bytes:// URL derived from the content hash.
func (l *FromBytes) GetSourceURL() *url.URL {
	return l.sourceURL
}
