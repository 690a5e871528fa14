package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestParseStringReportsLexErrorsFirst(t *testing.T) {
	_, diags := ParseString("print @;", nil)
	if len(diags) != 2 {
		t.Fatalf("expected lexical and syntax errors, got %v", diags)
	}
	if got := diags[0].Error(); got != "[line 1] Error: Unexpected character." {
		t.Fatalf("expected lexical error first, got %q", got)
	}
	if got := diags[1].Error(); got != "[line 1] Error at ';': Expect expression." {
		t.Fatalf("expected syntax error second, got %q", got)
	}
}

func TestDiagnosticsError(t *testing.T) {
	var none Diagnostics
	if none.Err() != nil {
		t.Fatalf("expected nil error for empty diagnostics")
	}
	ds := Diagnostics{NewDiagnostic(1, "one"), NewDiagnostic(2, "two")}
	if got, want := ds.Error(), "[line 1] Error: one\n[line 2] Error: two"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	wrapped := errors.Join(errors.New("context"), ds.Err())
	found, ok := AsDiagnostics(wrapped)
	if !ok || len(found) != 2 {
		t.Fatalf("expected diagnostics to be recovered from wrapped error, got %v", found)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestParseReaderHandlesIOErrors(t *testing.T) {
	if _, err := ParseReader(failingReader{}, nil); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected underlying IO error, got %v", err)
	}

	stmts, err := ParseReader(strings.NewReader("var value = 5; print value;"), nil)
	if err != nil {
		t.Fatalf("ParseReader returned error: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected two statements from reader, got %d", len(stmts))
	}

	if _, err := ParseReader(strings.NewReader("var = 5;"), nil); err == nil {
		t.Fatalf("expected syntax error from reader")
	} else if _, ok := AsDiagnostics(err); !ok {
		t.Fatalf("expected Diagnostics error, got %T", err)
	}
}
