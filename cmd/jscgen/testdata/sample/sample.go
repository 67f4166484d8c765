package sample

import "strings"

//jscore:export
func Add(a, b int) int { return a + b }

// Shout upper-cases s.
//
//jscore:export shout
func Shout(s string) string { return strings.ToUpper(s) + "!" }

func notExported() {}

//jscore:object
type Counter struct {
	Step  int
	Count int `js:",readonly"`
}

func (c *Counter) Increment() int {
	c.Count += c.Step
	return c.Count
}

type (
	//jscore:object Point
	point struct{ X, Y float64 }

	ignored struct{}
)
