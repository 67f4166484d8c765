//go:build linux && !jsc_gtk40 && !jsc_gtk30

package sys

// #cgo pkg-config: javascriptcoregtk-4.1
import "C"
