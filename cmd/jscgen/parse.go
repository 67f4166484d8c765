package main

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/robbyt/go-jscore/internal/helpers"
)

const (
	exportDirective = "//jscore:export"
	objectDirective = "//jscore:object"
)

var jsIdent = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// export is one function or struct type to register.
type export struct {
	GoName string
	JSName string
	Object bool
	Pos    token.Position
}

// scan is the result of parsing a package directory.
type scan struct {
	Package string
	Exports []export
}

// parsePackage collects the directives in the non-test Go files of dir.
// skip names a file to ignore, normally the previous output.
func parsePackage(dir, skip string) (*scan, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading package directory: %w", err)
	}

	fset := token.NewFileSet()
	result := &scan{}
	var errs []error

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == skip {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if ast.IsGenerated(file) {
			continue
		}

		switch {
		case result.Package == "":
			result.Package = file.Name.Name
		case result.Package != file.Name.Name:
			return nil, fmt.Errorf("%s: package %s, expected %s", name, file.Name.Name, result.Package)
		}

		exports, fileErrs := fileExports(fset, file)
		result.Exports = append(result.Exports, exports...)
		errs = append(errs, fileErrs...)
	}

	if result.Package == "" {
		return nil, fmt.Errorf("no Go files in %s", dir)
	}
	errs = append(errs, checkDuplicates(result.Exports)...)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return result, nil
}

func fileExports(fset *token.FileSet, file *ast.File) ([]export, []error) {
	var exports []export
	var errs []error

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			jsName, found := directive(d.Doc, exportDirective)
			if _, isObject := directive(d.Doc, objectDirective); isObject {
				errs = append(errs, fmt.Errorf("%s: %s applies to struct types", fset.Position(d.Pos()), objectDirective))
			}
			if !found {
				continue
			}
			pos := fset.Position(d.Pos())
			if d.Recv != nil {
				errs = append(errs, fmt.Errorf("%s: %s cannot be used on method %s", pos, exportDirective, d.Name.Name))
				continue
			}
			if d.Type.TypeParams != nil {
				errs = append(errs, fmt.Errorf("%s: generic function %s cannot be exported", pos, d.Name.Name))
				continue
			}
			if jsName == "" {
				jsName = helpers.LowerCamel(d.Name.Name)
			}
			exports = append(exports, export{GoName: d.Name.Name, JSName: jsName, Pos: pos})

		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				if _, found := directive(d.Doc, exportDirective); found {
					errs = append(errs, fmt.Errorf("%s: %s applies to functions", fset.Position(d.Pos()), exportDirective))
				}
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				jsName, found := directive(doc, objectDirective)
				if !found {
					continue
				}
				pos := fset.Position(ts.Pos())
				if _, ok := ts.Type.(*ast.StructType); !ok || ts.TypeParams != nil {
					errs = append(errs, fmt.Errorf("%s: %s requires a non-generic struct type, %s is not", pos, objectDirective, ts.Name.Name))
					continue
				}
				if jsName == "" {
					jsName = "new" + ts.Name.Name
				}
				exports = append(exports, export{GoName: ts.Name.Name, JSName: jsName, Object: true, Pos: pos})
			}
		}
	}

	for _, e := range exports {
		if !jsIdent.MatchString(e.JSName) {
			errs = append(errs, fmt.Errorf("%s: %q is not a valid JavaScript identifier", e.Pos, e.JSName))
		}
	}
	return exports, errs
}

// directive returns the argument of the named directive in doc.
func directive(doc *ast.CommentGroup, name string) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, name)
		if !ok {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		return strings.TrimSpace(rest), true
	}
	return "", false
}

func checkDuplicates(exports []export) []error {
	var errs []error
	seen := make(map[string]token.Position, len(exports))
	for _, e := range exports {
		if first, dup := seen[e.JSName]; dup {
			errs = append(errs, fmt.Errorf("%s: JavaScript name %q already used at %s", e.Pos, e.JSName, first))
			continue
		}
		seen[e.JSName] = e.Pos
	}
	return errs
}
