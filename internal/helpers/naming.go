package helpers

import "unicode"

// LowerCamel converts an exported Go identifier to the JavaScript naming
// convention: "Name" to "name", "URLPath" to "urlPath", "ID" to "id".
func LowerCamel(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n == 1 || n == len(runes):
		// single leading capital, or all capitals
	default:
		// keep the capital that starts the next word
		n--
	}
	for i := range n {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
