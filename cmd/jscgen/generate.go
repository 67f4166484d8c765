package main

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var registrarTemplate = template.Must(template.ParseFS(templateFS, "templates/registrar.go.tmpl"))

var errNoExports = errors.New("no //jscore:export or //jscore:object directives found")

type config struct {
	dir      string
	out      string
	module   string
	typeName string
}

// templateData is the input of registrar.go.tmpl.
type templateData struct {
	Package    string
	Module     string
	Type       string
	Exports    []export
	HasObjects bool
}

// run scans cfg.dir and writes the registration file. It returns the path
// written.
func run(cfg config, logger *slog.Logger) (string, error) {
	if !token.IsIdentifier(cfg.typeName) || !token.IsExported(cfg.typeName) {
		return "", fmt.Errorf("-type %q must be an exported Go identifier", cfg.typeName)
	}

	out := cfg.out
	skip := ""
	if out != "" && filepath.Dir(out) == "." && !filepath.IsAbs(out) {
		out = filepath.Join(cfg.dir, out)
	}
	if out != "" {
		skip = filepath.Base(out)
	}

	result, err := parsePackage(cfg.dir, skip)
	if err != nil {
		return "", err
	}
	if out == "" {
		out = filepath.Join(cfg.dir, result.Package+"_jscore.go")
	}
	if len(result.Exports) == 0 {
		return "", errNoExports
	}

	module := cfg.module
	if module == "" {
		module = result.Package
	}
	logger.Debug("Scanned package", "package", result.Package, "exports", len(result.Exports), "module", module)

	src, err := render(templateData{
		Package:    result.Package,
		Module:     module,
		Type:       cfg.typeName,
		Exports:    result.Exports,
		HasObjects: slices.ContainsFunc(result.Exports, func(e export) bool { return e.Object }),
	})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return "", fmt.Errorf("writing output: %w", err)
	}
	return out, nil
}

func render(data templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := registrarTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return formatted, nil
}
