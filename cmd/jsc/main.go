// Command jsc runs JavaScript on JavaScriptCore.
//
//	jsc [flags] [file.js ...]
//
// Files run in order in one context. With -e the expression runs after
// the files and its result is printed. Without files or -e, jsc starts an
// interactive shell when stdin is a terminal and otherwise runs stdin as
// a script. Scripts can call console.log and print.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"golang.org/x/term"
)

type config struct {
	expr    string
	json    bool
	verbose bool
	files   []string
}

func main() {
	cfg := config{}
	flag.StringVar(&cfg.expr, "e", "", "evaluate expression and print the result")
	flag.BoolVar(&cfg.json, "json", false, "print results as JSON")
	flag.BoolVar(&cfg.verbose, "v", false, "enable debug logging")
	flag.Parse()
	cfg.files = flag.Args()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "jsc: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, cfg config, stdin io.Reader, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, cfg.verbose)

	sh, err := newShell(stdout, logger, cfg.json)
	if err != nil {
		return err
	}
	defer func() {
		if err := sh.Close(); err != nil {
			logger.Warn("closing context", "error", err)
		}
	}()

	for _, path := range cfg.files {
		logger.Debug("running file", "path", path)
		if err := sh.runFile(ctx, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	if cfg.expr != "" {
		return sh.runSource(ctx, cfg.expr, "expression")
	}
	if len(cfg.files) > 0 {
		return nil
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rl, err := newReadline(historyPath())
		if err != nil {
			return err
		}
		defer rl.Close()
		return sh.repl(ctx, rl, stderr)
	}

	src, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return sh.runSource(ctx, string(src), "stdin")
}

func historyPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jsc_history")
}
