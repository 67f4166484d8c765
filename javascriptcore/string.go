package javascriptcore

import (
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/robbyt/go-jscore/sys"
)

// String is an engine string. Strings are not tied to a context.
type String struct {
	ref      sys.StringRef
	released atomic.Bool
	cleanup  runtime.Cleanup
}

// NewString creates an engine string from s.
func NewString(s string) *String {
	return adoptString(sys.StringCreate(s))
}

// NewStringFromUTF16 creates an engine string from UTF-16 code units.
func NewStringFromUTF16(units []uint16) *String {
	return adoptString(sys.StringCreateWithCharacters(units))
}

// adoptString takes ownership of a reference the caller already holds.
func adoptString(ref sys.StringRef) *String {
	s := &String{ref: ref}
	// string refcounts are thread safe, so the cleanup may release directly
	s.cleanup = runtime.AddCleanup(s, sys.StringRelease, ref)
	return s
}

// Len returns the length in UTF-16 code units.
func (s *String) Len() int {
	if s.released.Load() {
		return 0
	}
	return sys.StringGetLength(s.ref)
}

// IsEmpty reports whether the string has no code units.
func (s *String) IsEmpty() bool {
	return s.Len() == 0
}

// String converts to UTF-8. Unpaired surrogates become U+FFFD.
func (s *String) String() string {
	if s.released.Load() {
		return ""
	}
	return sys.StringGetUTF8(s.ref)
}

// GoString renders the string for %#v.
func (s *String) GoString() string {
	return "JSString { " + strconv.Quote(s.String()) + " }"
}

// UTF16 returns a copy of the code units.
func (s *String) UTF16() []uint16 {
	if s.released.Load() {
		return nil
	}
	return sys.StringGetCharacters(s.ref)
}

// Equal compares code units with other.
func (s *String) Equal(other *String) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.released.Load() || other.released.Load() {
		return false
	}
	return sys.StringIsEqual(s.ref, other.ref)
}

// EqualString compares with a Go string.
func (s *String) EqualString(other string) bool {
	if s.released.Load() {
		return false
	}
	return sys.StringIsEqualToUTF8(s.ref, other)
}

// Retain returns a new owner of the same native string.
func (s *String) Retain() *String {
	if s.released.Load() {
		return NewString("")
	}
	return adoptString(sys.StringRetain(s.ref))
}

// Release drops this owner's reference. Further calls are no-ops.
func (s *String) Release() {
	if !s.released.CompareAndSwap(false, true) {
		return
	}
	s.cleanup.Stop()
	sys.StringRelease(s.ref)
}
