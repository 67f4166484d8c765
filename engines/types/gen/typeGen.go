// Command gen writes the engine type constants of package types.
//
// Run it from the types directory with go generate.
package main

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"log"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed templates/*.tmpl
var templates embed.FS

// EngineType describes one engine constant.
type EngineType struct {
	Name        string
	Value       string
	Description string
}

var engineTypes = []EngineType{
	{
		Name:        "JavaScriptCore",
		Value:       "javascriptcore",
		Description: "JavaScriptCore engine: https://developer.apple.com/documentation/javascriptcore",
	},
}

var outputTargets = []struct {
	TemplateFile string
	OutputFile   string
}{
	{TemplateFile: "type.go.tmpl", OutputFile: "type.go"},
	{TemplateFile: "type_test.go.tmpl", OutputFile: "type_test.go"},
}

// generate renders every output target into dir.
func generate(dir string, eTypes []EngineType) ([]string, error) {
	var written []string
	for _, target := range outputTargets {
		t, err := template.ParseFS(templates, "templates/"+target.TemplateFile)
		if err != nil {
			return written, fmt.Errorf("parsing %s: %w", target.TemplateFile, err)
		}

		var buf bytes.Buffer
		if err := t.Execute(&buf, struct{ Types []EngineType }{eTypes}); err != nil {
			return written, fmt.Errorf("rendering %s: %w", target.TemplateFile, err)
		}

		formatted, err := format.Source(buf.Bytes())
		if err != nil {
			return written, fmt.Errorf("formatting %s: %w", target.OutputFile, err)
		}

		out := filepath.Join(dir, target.OutputFile)
		if err := os.WriteFile(out, formatted, 0o644); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}

func main() {
	written, err := generate(".", engineTypes)
	if err != nil {
		log.Fatal(err)
	}
	for _, out := range written {
		fmt.Printf("Generated: %s\n", out)
	}
}
