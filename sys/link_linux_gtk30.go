//go:build linux && jsc_gtk30

package sys

// #cgo pkg-config: javascriptcoregtk-3.0
import "C"
