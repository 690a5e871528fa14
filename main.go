package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/sergev/lox/config"
	"github.com/sergev/lox/runtime"
)

const (
	prompt = "> "

	exitUsage   = 0
	exitFailure = 1
	exitNoInput = 66
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole command line tool. It returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 1 {
		fmt.Fprintln(stdout, "Usage: lox [script]")
		return exitUsage
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		return exitFailure
	}

	session := runtime.NewSession(stdout)
	if cfg.DebugAST {
		session.Trace = stderr
	}

	if len(args) == 1 {
		return runScript(session, args[0], stdin, stdout, stderr)
	}

	if f, ok := stdin.(*os.File); ok && isTerminal(f) {
		rep := newReporter(stdout, cfg.Color, true)
		if err := runInteractiveREPL(session, rep, cfg.HistoryFile); err != nil {
			fmt.Fprintf(stderr, "lox: %v\n", err)
			return exitFailure
		}
		return runtime.ExitOK
	}
	rep := newReporter(stdout, cfg.Color, false)
	if err := runBufferedREPL(session, rep, bufio.NewReader(stdin), stdout); err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		return exitFailure
	}
	return runtime.ExitOK
}

func runScript(session *runtime.Session, script string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		res runtime.Result
		err error
	)
	if script == "-" {
		res, err = session.RunReader(stdin)
	} else {
		res, err = session.RunFile(script)
	}
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return exitNoInput
		}
		return runtime.ExitRuntimeError
	}
	res.Report(stdout)
	return res.ExitCode()
}

// runBufferedREPL serves a REPL over a non-terminal input, one line per run.
// Errors in one line do not end the session.
func runBufferedREPL(session *runtime.Session, rep *reporter, reader *bufio.Reader, stdout io.Writer) error {
	for {
		fmt.Fprint(stdout, prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read error: %w", err)
		}
		if line != "" {
			if runErr := runLine(session, rep, strings.TrimRight(line, "\r\n")); runErr != nil {
				return runErr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func runInteractiveREPL(session *runtime.Session, rep *reporter, historyPath string) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	for {
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(rep.out)
				return nil
			default:
				return fmt.Errorf("read error: %w", err)
			}
		}
		if trimmed := strings.TrimSpace(input); trimmed != "" {
			state.AppendHistory(trimmed)
		}
		if err := runLine(session, rep, input); err != nil {
			return err
		}
	}
}

func runLine(session *runtime.Session, rep *reporter, line string) error {
	res, err := session.Run(line)
	if err != nil {
		return err
	}
	rep.report(res)
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
