// Command jscgen generates JavaScript registration code for a Go package.
//
// Functions marked with a //jscore:export directive become module
// functions, and struct types marked with //jscore:object get a
// constructor function that exposes a new instance through bind.Struct:
//
//	//jscore:export add
//	func Add(a, b int) int { return a + b }
//
//	//jscore:object
//	type Counter struct{ Step int }
//
// The generated file declares a bind.Registrar implementation and a
// constructor for a bind.Module holding every export. Typical use:
//
//	//go:generate go run github.com/robbyt/go-jscore/cmd/jscgen -module mathx
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

func main() {
	cfg := config{}
	flag.StringVar(&cfg.dir, "dir", ".", "package directory to scan")
	flag.StringVar(&cfg.out, "out", "", "output file (default <package>_jscore.go in -dir)")
	flag.StringVar(&cfg.module, "module", "", "JavaScript module name (default the package name)")
	flag.StringVar(&cfg.typeName, "type", "JSExports", "name of the generated registrar type")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path, err := run(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jscgen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated: %s\n", path)
}
