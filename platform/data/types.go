package data

// Types names the JavaScript type of an evaluation result.
type Types string

const (
	UNDEFINED Types = "undefined"
	NULL      Types = "null"
	BOOL      Types = "boolean"
	NUMBER    Types = "number"
	STRING    Types = "string"
	ARRAY     Types = "array"
	OBJECT    Types = "object"
	DATE      Types = "date"
	BYTES     Types = "bytes"
	FUNCTION  Types = "function"
	SYMBOL    Types = "symbol"
)

