// Package sys exposes the JavaScriptCore C API entry points used by the
// javascriptcore package.
//
// Handles returned here are raw: nothing is retained, protected or released
// on the caller's behalf. Functions that can throw return the thrown value as
// a second ValueRef, which is nil when no exception occurred.
//
// Linking:
//   - macOS: the system JavaScriptCore framework.
//   - Linux: pkg-config javascriptcoregtk-4.1, or javascriptcoregtk-4.0 /
//     javascriptcoregtk-3.0 with the jsc_gtk40 / jsc_gtk30 build tags.
//   - Windows: JavaScriptCore.lib and WTF.lib from .build/windows/win/lib32.
package sys
