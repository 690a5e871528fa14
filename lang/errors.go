package lang

import (
	"errors"
	"fmt"

	"github.com/sergev/lox/parser"
)

// RuntimeError is raised during evaluation. It aborts the current top-level
// run and is reported as "message\n[line N]".
type RuntimeError struct {
	Token   parser.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func runtimeErrorf(tok parser.Token, format string, args ...interface{}) error {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// AsRuntimeError extracts a *RuntimeError from err.
func AsRuntimeError(err error) (*RuntimeError, bool) {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}
