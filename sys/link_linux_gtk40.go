//go:build linux && jsc_gtk40

package sys

// #cgo pkg-config: javascriptcoregtk-4.0
import "C"
