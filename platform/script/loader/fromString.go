package loader

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/robbyt/go-jscore/internal/helpers"
)

// FromString loads a script held in a string.
type FromString struct {
	content   string
	sourceURL *url.URL
}

// NewFromString creates a loader for inline source. Surrounding whitespace
// is trimmed and the remaining content must not be empty.
func NewFromString(content string) (*FromString, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrScriptNotAvailable)
	}

	return &FromString{
		content:   content,
		sourceURL: inlineURL("string", helpers.SHA256(content)),
	}, nil
}

// NewFromStringBase64 decodes content as standard base64, falling back to
// the content itself when it is not valid base64.
func NewFromStringBase64(content string) (Loader, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrScriptNotAvailable)
	}

	if decoded, err := base64.StdEncoding.DecodeString(content); err == nil {
		if l, err := NewFromBytes(decoded); err == nil {
			return l, nil
		}
	}
	return NewFromString(content)
}

func (l *FromString) String() string {
	return fmt.Sprintf("loader.FromString{Chars: %d}", len(l.content))
}

// GetReader returns a reader over the content.
func (l *FromString) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(l.content)), nil
}

// GetSourceURL returns a string:// URL derived from the content hash.
func (l *FromString) GetSourceURL() *url.URL {
	return l.sourceURL
}

// inlineURL builds scheme://inline/<hash prefix> for in-memory sources.
func inlineURL(scheme, hash string) *url.URL {
	return &url.URL{Scheme: scheme, Host: "inline", Path: "/" + hash[:8]}
}
