package loader

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// InferLoader picks a loader for input:
//   - Loader: returned as is
//   - []byte: FromBytes
//   - io.Reader: FromIoReader
//   - string: a file:// URL or an existing file path loads from disk, other
//     URL schemes are rejected, anything else is inline source (base64
//     encoded source is decoded)
func InferLoader(input any) (Loader, error) {
	switch v := input.(type) {
	case Loader:
		return v, nil
	case string:
		return inferFromString(v)
	case []byte:
		return NewFromBytes(v)
	case io.Reader:
		return NewFromIoReader(v, "inferred")
	case nil:
		return nil, ErrLoaderNil
	default:
		return nil, fmt.Errorf("unsupported input type: %T", input)
	}
}

func inferFromString(input string) (Loader, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty string input", ErrScriptNotAvailable)
	}

	if scheme, _, ok := strings.Cut(input, "://"); ok && !strings.ContainsAny(scheme, " \t\n(;") {
		u, err := url.Parse(input)
		if err == nil {
			if u.Scheme == "file" {
				return NewFromDisk(input)
			}
			return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, u.Scheme)
		}
	}

	if !strings.ContainsAny(input, "\n;") {
		if info, err := os.Stat(input); err == nil && info.Mode().IsRegular() {
			return NewFromDisk(input)
		}
	}

	return NewFromStringBase64(input)
}
