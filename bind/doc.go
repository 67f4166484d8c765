// Package bind registers Go functions, constants and structs with a
// JavaScript context.
//
// Functions are adapted with reflection: arguments are decoded from
// JavaScript into the parameter types, and results are converted back.
//
//	m := bind.NewModule("math")
//	if err := m.Func("add", func(a, b int) int { return a + b }); err != nil {
//		return err
//	}
//	if err := m.Const("pi", math.Pi); err != nil {
//		return err
//	}
//	if _, err := m.Install(jsctx); err != nil {
//		return err
//	}
//
// Struct pointers are exposed as live host objects: reads and writes from
// JavaScript go straight to the Go fields, and methods are callable.
//
// The jscgen command generates Registrar implementations from
// //jscore:export and //jscore:object directives.
package bind
