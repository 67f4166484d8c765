// Package types names the script engines an ExecutableUnit can target.
package types

//go:generate go run ./gen
