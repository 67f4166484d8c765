package sys

// #cgo CFLAGS: -Wno-deprecated-declarations
// #cgo LDFLAGS: -framework JavaScriptCore
import "C"
