package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

const (
	prompt         = "> "
	continuePrompt = "... "
	replSourceURL  = "repl"
)

// lineReader is the part of *readline.Instance the REPL uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

func newReadline(historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

// repl reads statements from rl until EOF. Input that ends mid-statement
// is continued on the next line; ^C discards a pending statement.
func (sh *shell) repl(ctx context.Context, rl lineReader, errOut io.Writer) error {
	var pending []string
	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if len(pending) == 0 {
				return nil
			}
			pending = nil
			rl.SetPrompt(prompt)
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		pending = append(pending, line)
		source := strings.Join(pending, "\n")
		if strings.TrimSpace(source) == "" {
			pending = nil
			continue
		}

		if err := sh.jsCtx.CheckSyntax(source); err != nil {
			if incomplete(err) {
				rl.SetPrompt(continuePrompt)
				continue
			}
			fmt.Fprintln(errOut, err)
			pending = nil
			rl.SetPrompt(prompt)
			continue
		}

		pending = nil
		rl.SetPrompt(prompt)
		if err := sh.runSource(ctx, source, replSourceURL); err != nil {
			fmt.Fprintln(errOut, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
