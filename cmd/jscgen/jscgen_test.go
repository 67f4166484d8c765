package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// copySample copies testdata/sample into a temporary directory.
func copySample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.CopyFS(dir, os.DirFS(filepath.Join("testdata", "sample"))))
	return dir
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	return dir
}

func TestParsePackage(t *testing.T) {
	t.Parallel()

	result, err := parsePackage(filepath.Join("testdata", "sample"), "")
	require.NoError(t, err)
	assert.Equal(t, "sample", result.Package)

	type entry struct {
		goName, jsName string
		object         bool
	}
	var got []entry
	for _, e := range result.Exports {
		got = append(got, entry{e.GoName, e.JSName, e.Object})
	}
	assert.Equal(t, []entry{
		{"Divide", "divide", false},
		{"Add", "add", false},
		{"Shout", "shout", false},
		{"Counter", "newCounter", true},
		{"point", "Point", true},
	}, got)
}

func TestParsePackageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name: "method",
			files: map[string]string{"a.go": `package a
type T struct{}
//jscore:export
func (T) M() {}
`},
			want: "cannot be used on method M",
		},
		{
			name: "object on non-struct",
			files: map[string]string{"a.go": `package a
//jscore:object
type N int
`},
			want: "requires a non-generic struct type, N is not",
		},
		{
			name: "object on function",
			files: map[string]string{"a.go": `package a
//jscore:object
func F() {}
`},
			want: "applies to struct types",
		},
		{
			name: "export on variable",
			files: map[string]string{"a.go": `package a
//jscore:export
var V = 1
`},
			want: "applies to functions",
		},
		{
			name: "generic",
			files: map[string]string{"a.go": `package a
//jscore:export
func G[T any](v T) T { return v }
`},
			want: "generic function G",
		},
		{
			name: "invalid name",
			files: map[string]string{"a.go": `package a
//jscore:export not-valid
func F() {}
`},
			want: `"not-valid" is not a valid JavaScript identifier`,
		},
		{
			name: "duplicate",
			files: map[string]string{
				"a.go": "package a\n//jscore:export same\nfunc F() {}\n",
				"b.go": "package a\n//jscore:export same\nfunc G() {}\n",
			},
			want: `JavaScript name "same" already used`,
		},
		{
			name: "mixed packages",
			files: map[string]string{
				"a.go": "package a\n",
				"b.go": "package b\n",
			},
			want: "package b, expected a",
		},
		{
			name:  "syntax error",
			files: map[string]string{"a.go": "package a\nfunc {"},
			want:  "parsing a.go",
		},
		{
			name:  "no go files",
			files: map[string]string{"a_test.go": "package a\n"},
			want:  "no Go files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parsePackage(writeFiles(t, tt.files), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDirective(t *testing.T) {
	t.Parallel()

	doc := func(lines ...string) *ast.CommentGroup {
		g := &ast.CommentGroup{}
		for _, l := range lines {
			g.List = append(g.List, &ast.Comment{Text: l})
		}
		return g
	}

	tests := []struct {
		name  string
		doc   *ast.CommentGroup
		arg   string
		found bool
	}{
		{"nil doc", nil, "", false},
		{"bare", doc("//jscore:export"), "", true},
		{"named", doc("// Docs.", "//jscore:export  sum "), "sum", true},
		{"tab", doc("//jscore:export\tsum"), "sum", true},
		{"prefix only", doc("//jscore:exported"), "", false},
		{"spaced comment", doc("// jscore:export"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arg, found := directive(tt.doc, exportDirective)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.arg, arg)
		})
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("default output", func(t *testing.T) {
		dir := copySample(t)
		path, err := run(config{dir: dir, module: "mathx", typeName: "JSExports"}, testLogger())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "sample_jscore.go"), path)

		src, err := os.ReadFile(path)
		require.NoError(t, err)
		out := string(src)

		assert.Contains(t, out, "// Code generated by jscgen; DO NOT EDIT.")
		assert.Contains(t, out, "package sample")
		assert.Contains(t, out, `m.Func("add", Add)`)
		assert.Contains(t, out, `m.Func("shout", Shout)`)
		assert.Contains(t, out, `m.Func("divide", Divide)`)
		assert.Contains(t, out, `m.Func("newCounter", func(ctx *javascriptcore.Context, init Counter) (*javascriptcore.Object, error) {`)
		assert.Contains(t, out, `m.Func("Point", func(ctx *javascriptcore.Context, init point)`)
		assert.Contains(t, out, `bind.NewModule("mathx")`)
		assert.Contains(t, out, "func NewJSExportsModule() (*bind.Module, error)")
		assert.NotContains(t, out, "notExported")

		fset := token.NewFileSet()
		_, err = parser.ParseFile(fset, path, src, parser.AllErrors)
		require.NoError(t, err)

		// the generated file is skipped on the next run
		again, err := run(config{dir: dir, typeName: "JSExports"}, testLogger())
		require.NoError(t, err)
		src, err = os.ReadFile(again)
		require.NoError(t, err)
		assert.Contains(t, string(src), `bind.NewModule("sample")`)
	})

	t.Run("custom output and type", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"a.go": "package a\n//jscore:export\nfunc Ping() string { return \"pong\" }\n"})
		path, err := run(config{dir: dir, out: "exports_gen.go", typeName: "Exports"}, testLogger())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "exports_gen.go"), path)

		src, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(src), "type Exports struct{}")
		assert.Contains(t, string(src), "func NewExportsModule()")
		assert.NotContains(t, string(src), "javascriptcore")
	})

	t.Run("errors", func(t *testing.T) {
		_, err := run(config{dir: copySample(t), typeName: "lower"}, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exported Go identifier")

		_, err = run(config{dir: writeFiles(t, map[string]string{"a.go": "package a\n"}), typeName: "JSExports"}, testLogger())
		require.ErrorIs(t, err, errNoExports)

		_, err = run(config{dir: filepath.Join(t.TempDir(), "missing"), typeName: "JSExports"}, testLogger())
		require.Error(t, err)
	})
}
