package sys

// #cgo CFLAGS: -I${SRCDIR}/../.build/windows/include
// #cgo LDFLAGS: -L${SRCDIR}/../.build/windows/win/lib32 -lJavaScriptCore -lWTF
import "C"
