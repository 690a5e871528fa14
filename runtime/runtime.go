package runtime

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sergev/lox/lang"
	"github.com/sergev/lox/parser"
)

// Exit statuses for file mode.
const (
	ExitOK           = 0
	ExitStaticError  = 65
	ExitRuntimeError = 70
)

// Result is the outcome of running one piece of source text.
type Result struct {
	Diagnostics parser.Diagnostics // lexical, syntax and resolution errors, in order
	RuntimeErr  *lang.RuntimeError // set when evaluation stopped on an error
}

// HadStaticError reports whether the source was rejected before evaluation.
func (r Result) HadStaticError() bool {
	return len(r.Diagnostics) > 0
}

// HadRuntimeError reports whether evaluation stopped on a runtime error.
func (r Result) HadRuntimeError() bool {
	return r.RuntimeErr != nil
}

// ExitCode maps the result to the process status used in file mode.
func (r Result) ExitCode() int {
	switch {
	case r.HadStaticError():
		return ExitStaticError
	case r.HadRuntimeError():
		return ExitRuntimeError
	default:
		return ExitOK
	}
}

// Report writes diagnostics and the runtime error, if any, to w.
func (r Result) Report(w io.Writer) {
	for _, d := range r.Diagnostics {
		fmt.Fprintln(w, d.Error())
	}
	if r.RuntimeErr != nil {
		fmt.Fprintln(w, r.RuntimeErr.Error())
	}
}

// Session is a long-lived interpreter. Globals defined by one Run are visible
// to the next, which is what the REPL relies on.
type Session struct {
	Interp *lang.Interpreter

	// Trace, when set, receives the debug form of every top-level
	// expression before it is evaluated.
	Trace io.Writer

	ids parser.IDGen
}

// NewSession constructs a session with the native functions installed.
// print statements write to out.
func NewSession(out io.Writer) *Session {
	in := lang.NewInterpreter(out)
	installNatives(in)
	return &Session{Interp: in}
}

// Run lexes, parses, resolves and evaluates src. Evaluation is skipped when
// any static error was found. A non-nil error means an internal failure, not
// a problem with the program.
func (s *Session) Run(src string) (Result, error) {
	stmts, diags := parser.ParseString(src, &s.ids)
	if len(diags) > 0 {
		return Result{Diagnostics: diags}, nil
	}
	locals, diags := lang.Resolve(stmts)
	if len(diags) > 0 {
		return Result{Diagnostics: diags}, nil
	}
	s.trace(stmts)
	s.Interp.AddLocals(locals)

	if err := s.Interp.Interpret(stmts); err != nil {
		if rerr, ok := lang.AsRuntimeError(err); ok {
			return Result{RuntimeErr: rerr}, nil
		}
		return Result{}, err
	}
	return Result{}, nil
}

func (s *Session) trace(stmts []parser.Stmt) {
	if s.Trace == nil {
		return
	}
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *parser.ExpressionStmt:
			fmt.Fprintln(s.Trace, parser.PrintExpr(st.Expr))
		case *parser.PrintStmt:
			fmt.Fprintln(s.Trace, "(print "+parser.PrintExpr(st.Expr)+")")
		}
	}
}

// RunReader consumes all source from r and runs it.
func (s *Session) RunReader(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, err
	}
	return s.Run(string(data))
}

// RunFile loads and executes a script file, allowing a #! first line.
func (s *Session) RunFile(path string) (Result, error) {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return Result{}, err
	}
	return s.RunReader(bytes.NewReader(data))
}

// readFileSkippingShebang blanks out a leading #! line. The newline is kept
// so that line numbers in diagnostics still match the file.
func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			return data[idx:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}
