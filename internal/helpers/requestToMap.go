package helpers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// RequestToMap converts an http.Request to a map that converts cleanly to a
// JavaScript object. Keys are lowerCamelCase; headers and query parameters
// map names to arrays of values. The body is read in full and replaced, so
// the request can still be served afterwards.
func RequestToMap(r *http.Request) (map[string]any, error) {
	if r == nil {
		return nil, errors.New("request is nil")
	}

	u := r.URL
	if u == nil {
		u = &url.URL{Path: "/"}
	}

	body := ""
	if r.Body != nil && r.Body != http.NoBody {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		body = string(b)
		r.Body = io.NopCloser(bytes.NewReader(b))
	}

	return map[string]any{
		"method":        r.Method,
		"url":           u.String(),
		"scheme":        u.Scheme,
		"path":          u.Path,
		"query":         valuesMap(u.Query()),
		"proto":         r.Proto,
		"headers":       valuesMap(r.Header),
		"body":          body,
		"contentLength": r.ContentLength,
		"host":          r.Host,
		"remoteAddr":    r.RemoteAddr,
	}, nil
}

// valuesMap copies a header or query map into plain map and slice types.
func valuesMap[M ~map[string][]string](m M) map[string]any {
	out := make(map[string]any, len(m))
	for k, vs := range m {
		list := make([]any, len(vs))
		for i, v := range vs {
			list[i] = v
		}
		out[k] = list
	}
	return out
}
