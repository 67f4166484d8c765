package sys

// #include "jscore.h"
import "C"

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
	"unsafe"
)

// smallStringSize is the largest UTF-8 size converted through a fixed
// buffer instead of a heap allocation.
const smallStringSize = 128

// StringCreate creates a JavaScript string from a Go string. The caller owns
// the returned reference.
//
// Strings with embedded NUL bytes or invalid UTF-8 go through UTF-16, where
// invalid sequences become U+FFFD.
func StringCreate(s string) StringRef {
	if strings.IndexByte(s, 0) >= 0 || !utf8.ValidString(s) {
		return StringCreateWithCharacters(utf16.Encode([]rune(s)))
	}

	if len(s) < smallStringSize {
		var buf [smallStringSize + 1]byte
		copy(buf[:], s)
		return StringRef{C.JSStringCreateWithUTF8CString((*C.char)(unsafe.Pointer(&buf[0])))}
	}

	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return StringRef{C.JSStringCreateWithUTF8CString((*C.char)(unsafe.Pointer(&buf[0])))}
}

// StringCreateWithCharacters creates a string from UTF-16 code units.
func StringCreateWithCharacters(chars []uint16) StringRef {
	if len(chars) == 0 {
		return StringRef{C.JSStringCreateWithCharacters(nil, 0)}
	}
	return StringRef{C.JSStringCreateWithCharacters((*C.JSChar)(unsafe.Pointer(&chars[0])), C.size_t(len(chars)))}
}

func StringRetain(s StringRef) StringRef {
	return StringRef{C.JSStringRetain(s.p)}
}

func StringRelease(s StringRef) {
	C.JSStringRelease(s.p)
}

// StringGetLength returns the number of UTF-16 code units in s.
func StringGetLength(s StringRef) int {
	return int(C.JSStringGetLength(s.p))
}

// StringGetUTF8 converts s to a Go string.
func StringGetUTF8(s StringRef) string {
	maxSize := C.JSStringGetMaximumUTF8CStringSize(s.p)

	if maxSize <= smallStringSize {
		var buf [smallStringSize]byte
		n := C.JSStringGetUTF8CString(s.p, (*C.char)(unsafe.Pointer(&buf[0])), smallStringSize)
		if n == 0 {
			return ""
		}
		return string(buf[:n-1])
	}

	buf := make([]byte, maxSize)
	n := C.JSStringGetUTF8CString(s.p, (*C.char)(unsafe.Pointer(&buf[0])), maxSize)
	if n == 0 {
		return ""
	}
	return string(buf[:n-1])
}

// StringGetCharacters copies the UTF-16 code units of s.
func StringGetCharacters(s StringRef) []uint16 {
	n := int(C.JSStringGetLength(s.p))
	if n == 0 {
		return []uint16{}
	}
	ptr := (*uint16)(unsafe.Pointer(C.JSStringGetCharactersPtr(s.p)))
	out := make([]uint16, n)
	copy(out, unsafe.Slice(ptr, n))
	return out
}

func StringIsEqual(a, b StringRef) bool {
	return bool(C.JSStringIsEqual(a.p, b.p))
}

// StringIsEqualToUTF8 compares s with a Go string without allocating a
// JavaScript string for short inputs.
func StringIsEqualToUTF8(s StringRef, other string) bool {
	if strings.IndexByte(other, 0) >= 0 || !utf8.ValidString(other) {
		tmp := StringCreate(other)
		defer StringRelease(tmp)
		return StringIsEqual(s, tmp)
	}

	if len(other) < smallStringSize {
		var buf [smallStringSize + 1]byte
		copy(buf[:], other)
		return bool(C.JSStringIsEqualToUTF8CString(s.p, (*C.char)(unsafe.Pointer(&buf[0]))))
	}

	buf := make([]byte, len(other)+1)
	copy(buf, other)
	return bool(C.JSStringIsEqualToUTF8CString(s.p, (*C.char)(unsafe.Pointer(&buf[0]))))
}
