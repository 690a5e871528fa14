package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostic is a static (lexical, syntactic or resolution) error.
type Diagnostic struct {
	Line    int
	Where   string // "", " at end" or " at 'lexeme'"
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Diagnostics is an ordered list of static errors. It implements error so a
// whole batch can be returned and inspected with errors.As.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

// Err returns ds as an error, or nil when there is nothing to report.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}

// NewDiagnostic reports an error at a line with no token context.
func NewDiagnostic(line int, message string) Diagnostic {
	return Diagnostic{Line: line, Message: message}
}

// DiagnosticAt reports an error located at tok.
func DiagnosticAt(tok Token, message string) Diagnostic {
	if tok.Type == TokenEOF {
		return Diagnostic{Line: tok.Line, Where: " at end", Message: message}
	}
	return Diagnostic{Line: tok.Line, Where: fmt.Sprintf(" at '%s'", tok.Lexeme), Message: message}
}

// AsDiagnostics extracts the static errors carried by err, if any.
func AsDiagnostics(err error) (Diagnostics, bool) {
	var ds Diagnostics
	if errors.As(err, &ds) {
		return ds, true
	}
	var d Diagnostic
	if errors.As(err, &d) {
		return Diagnostics{d}, true
	}
	return nil, false
}
